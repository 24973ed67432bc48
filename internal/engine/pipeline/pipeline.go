// Package pipeline orchestrates one build pass: normalize, fingerprint,
// cache lookup, parallel dispatch of misses, helper checks, and the commit
// of cache and dependency-graph state.
package pipeline

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
	"github.com/refractlabs/refract/internal/engine/cachekey"
	"github.com/refractlabs/refract/internal/engine/normalize"
)

// Deps bundles the collaborators of a Pipeline.
type Deps struct {
	Normalizer *normalize.Normalizer
	Keys       *cachekey.Engine
	Cache      ports.TransformCache
	Workers    ports.JobExecutor
	Inline     ports.JobExecutor
	Graph      *domain.DepGraph
	Logger     ports.Logger
	Telemetry  ports.Telemetry
}

// Pipeline runs build passes. The cache and the dependency graph are owned
// exclusively by the pipeline and touched only from the controlling
// goroutine; workers are data-isolated by construction.
type Pipeline struct {
	deps        Deps
	maxParallel int
}

// New creates a Pipeline. maxParallel bounds how many transform jobs may be
// in flight at once; values below one disable the bound.
func New(deps Deps, maxParallel int) *Pipeline {
	return &Pipeline{deps: deps, maxParallel: maxParallel}
}

// Result is the outcome of a successful pass.
type Result struct {
	Outputs     []domain.OutputFile
	Hits        int
	Misses      int
	Fingerprint string
	Graph       []byte
}

type miss struct {
	idx int
	key string
	job *domain.Job
}

// Run executes one build pass over the given files. A terminal error aborts
// the pass before any cache or graph state is persisted; on success the
// staged records are committed, stale entries pruned, and the graph artifact
// serialized.
func (p *Pipeline) Run(ctx context.Context, raw *domain.Options, files []domain.FileEntry) (*Result, error) {
	cfg, err := p.deps.Normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	fp, err := p.deps.Keys.Fingerprint(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.reconcileFingerprint(fp); err != nil {
		return nil, err
	}

	live := mapset.NewSet[string]()
	outputs := make([]domain.OutputFile, len(files))
	hitRecords := make([]*domain.CacheRecord, 0, len(files))
	var misses []miss

	for i, f := range files {
		key := cachekey.FileKey(fp, f.Path, f.Content)
		live.Add(key)

		rec, err := p.deps.Cache.Get(key)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "cache lookup failed"), "path", f.Path)
		}
		if rec != nil {
			outputs[i] = domain.OutputFile{Path: f.Path, Code: rec.Output, SourceMap: rec.SourceMap}
			hitRecords = append(hitRecords, rec)
			p.recordHit(ctx, f.Path)
			continue
		}

		misses = append(misses, miss{
			idx: i,
			key: key,
			job: &domain.Job{Path: f.Path, Source: f.Content, Options: cfg.FileOptions(f.Path)},
		})
	}

	results, err := p.dispatch(ctx, cfg, misses)
	if err != nil {
		return nil, err
	}

	// Commit. Nothing below mutates persisted state until every job of the
	// pass has succeeded.
	for j, m := range misses {
		res := results[j]
		rec := domain.CacheRecord{
			Key:       m.key,
			Output:    res.Code,
			SourceMap: res.SourceMap,
			Helpers:   res.Helpers,
			Module:    res.Module,
		}
		if rec.Module != nil {
			rec.Module.FileKey = m.key
		}
		if err := p.deps.Cache.Put(rec); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "cache write failed"), "path", m.job.Path)
		}
		if rec.Module != nil {
			p.deps.Graph.Update(*rec.Module)
		}
		outputs[m.idx] = domain.OutputFile{Path: m.job.Path, Code: res.Code, SourceMap: res.SourceMap}
	}
	for _, rec := range hitRecords {
		if rec.Module != nil {
			p.deps.Graph.Update(*rec.Module)
		}
	}

	if _, err := p.deps.Cache.Prune(live); err != nil {
		return nil, zerr.Wrap(err, "cache prune failed")
	}
	if removed := p.deps.Graph.Prune(live); len(removed) > 0 {
		p.deps.Logger.Info(fmt.Sprintf("pruned %d stale module(s) from dependency graph", len(removed)))
	}
	if err := p.deps.Cache.Flush(); err != nil {
		return nil, zerr.Wrap(err, "cache flush failed")
	}

	artifact, err := p.deps.Graph.Serialize()
	if err != nil {
		return nil, err
	}

	return &Result{
		Outputs:     outputs,
		Hits:        len(files) - len(misses),
		Misses:      len(misses),
		Fingerprint: fp,
		Graph:       artifact,
	}, nil
}

// reconcileFingerprint wipes the cache wholesale when the configuration
// fingerprint no longer matches the one it was populated under.
// Configuration changes can alter output for files whose content is
// unchanged, so the invalidation is never selective.
func (p *Pipeline) reconcileFingerprint(fp string) error {
	stored, err := p.deps.Cache.Fingerprint()
	if err != nil {
		return zerr.Wrap(err, "failed to read cache fingerprint")
	}
	if stored == fp {
		return nil
	}
	if stored != "" {
		p.deps.Logger.Info("transform configuration changed; invalidating cache")
	}
	if err := p.deps.Cache.InvalidateAll(); err != nil {
		return zerr.Wrap(err, "cache invalidation failed")
	}
	return p.deps.Cache.SetFingerprint(fp)
}

// dispatch runs every cache miss to completion. Jobs for independent files
// run concurrently; the first terminal error cancels the remaining dispatch
// and fails the pass. Results are attributed by index, so nondeterministic
// completion order cannot misfile them.
func (p *Pipeline) dispatch(ctx context.Context, cfg *domain.CanonicalConfig, misses []miss) ([]*domain.TransformResult, error) {
	if len(misses) == 0 {
		return nil, nil
	}

	var allowed mapset.Set[string]
	if cfg.Helpers != nil {
		allowed = mapset.NewSet(cfg.Helpers...)
	}

	results := make([]*domain.TransformResult, len(misses))
	g, gctx := errgroup.WithContext(ctx)
	if p.maxParallel > 0 {
		g.SetLimit(p.maxParallel)
	}

	for j, m := range misses {
		g.Go(func() error {
			exec := p.deps.Workers
			if !m.job.Options.Portable() {
				// A closure cannot cross a process boundary; run in the
				// controlling process instead.
				exec = p.deps.Inline
			}

			vctx, vtx := p.deps.Telemetry.Record(gctx, m.job.Path)
			res, err := exec.Execute(vctx, m.job)
			if err == nil && allowed != nil {
				err = checkHelpers(m.job.Path, res.Helpers, allowed)
			}
			vtx.Complete(err)
			if err != nil {
				return err
			}
			results[j] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkHelpers(path string, helpers []string, allowed mapset.Set[string]) error {
	var offending []string
	for _, h := range helpers {
		if !allowed.Contains(h) {
			offending = append(offending, h)
		}
	}
	if len(offending) == 0 {
		return nil
	}
	return domain.UnlistedHelperError(path, offending)
}

func (p *Pipeline) recordHit(ctx context.Context, path string) {
	_, vtx := p.deps.Telemetry.Record(ctx, path)
	vtx.Cached()
	vtx.Complete(nil)
}
