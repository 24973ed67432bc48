// Package cachekey derives stable fingerprints from normalized transform
// configurations and per-file cache keys from (fingerprint, path, content).
package cachekey

import (
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

// configVersion is folded into every fingerprint so that changes to the
// hashing scheme itself invalidate old caches.
const configVersion = "refract-config-v1"

var instances atomic.Uint64

// Engine computes configuration fingerprints and per-file cache keys.
//
// One Engine corresponds to one build-tool instantiation: an inline callable
// lacking both cacheKey and baseDir capabilities makes every fingerprint
// from this instance unique, and the engine warns once per such plugin
// through the diagnostics sink.
type Engine struct {
	versioner ports.DirVersioner
	diag      ports.Diagnostics
	nonce     string
	warned    mapset.Set[string]
}

// New creates an Engine bound to a base-dir version proxy and a diagnostics
// sink.
func New(versioner ports.DirVersioner, diag ports.Diagnostics) *Engine {
	return &Engine{
		versioner: versioner,
		diag:      diag,
		nonce:     fmt.Sprintf("opt-out:%d:%d", time.Now().UnixNano(), instances.Add(1)),
		warned:    mapset.NewThreadUnsafeSet[string](),
	}
}

// Fingerprint derives the digest over the whole canonical configuration.
// Mapping keys are visited in sorted order, so value-equal configurations
// hash identically regardless of construction order; the plugin sequence is
// hashed in order because plugin order is semantically significant.
func (e *Engine) Fingerprint(cfg *domain.CanonicalConfig) (string, error) {
	h := xxhash.New()
	writeField(h, configVersion)

	writeField(h, fmt.Sprintf("moduleIds:%d:%s", cfg.ModuleIDs, cfg.ModuleRoot))
	writeField(h, fmt.Sprintf("sourceMaps:%d", cfg.SourceMaps))

	if cfg.Helpers == nil {
		writeField(h, "helpers:unrestricted")
	} else {
		sorted := append([]string(nil), cfg.Helpers...)
		sort.Strings(sorted)
		writeField(h, "helpers")
		for _, name := range sorted {
			writeField(h, name)
		}
	}

	writeField(h, "extra")
	if err := e.hashValue(h, "configuration", cfg.Extra); err != nil {
		return "", err
	}

	for i, p := range cfg.Plugins {
		writeField(h, fmt.Sprintf("plugin:%d", i))
		if err := e.hashPlugin(h, p); err != nil {
			return "", err
		}
	}
	if cfg.Resolver != nil {
		writeField(h, "resolver")
		if err := e.hashPlugin(h, cfg.Resolver); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// FileKey derives the per-file cache key from the configuration fingerprint,
// the file's relative path and its content. Identical triples always yield
// the same key, regardless of build pass.
func FileKey(fingerprint, path string, content []byte) string {
	h := xxhash.New()
	writeField(h, fingerprint)
	writeField(h, path)
	_, _ = h.Write(content)
	_, _ = h.Write([]byte{0})
	return fmt.Sprintf("%016x", h.Sum64())
}

// hashPlugin folds one descriptor into the digest according to its active
// representation.
func (e *Engine) hashPlugin(h *xxhash.Digest, p *domain.Plugin) error {
	switch p.Kind {
	case domain.PluginByName:
		writeField(h, "name")
		writeField(h, p.Name)
		return nil

	case domain.PluginFromModule:
		writeField(h, "module")
		writeField(h, p.Name)
		writeField(h, p.Path)
		return e.hashValue(h, p.Ident(), p.Options)

	case domain.PluginInline:
		return e.hashCallable(h, p.Ident(), warnKey(p), p.CacheKey, p.BaseDir)

	default:
		return zerr.With(zerr.Wrap(domain.ErrConfiguration, "unknown plugin descriptor kind"), "kind", p.Kind.String())
	}
}

// hashCallable applies the three-way rule for in-process callables: a
// cacheKey capability hashes its string, a baseDir capability hashes the
// directory's content-derived version proxy, and a callable with neither is
// uncacheable: the per-instantiation nonce is folded in and a warning is
// emitted once per plugin.
func (e *Engine) hashCallable(h *xxhash.Digest, ident, key string, cacheKey, baseDir func() string) error {
	switch {
	case cacheKey != nil:
		writeField(h, "cacheKey")
		writeField(h, cacheKey())

	case baseDir != nil:
		dir := baseDir()
		digest, err := e.versioner.Digest(dir)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to derive version proxy for plugin base dir"), "plugin", ident)
		}
		writeField(h, "baseDir")
		writeField(h, digest)

	default:
		writeField(h, "uncacheable")
		writeField(h, e.nonce)
		writeField(h, ident)
		if e.warned.Add(key) {
			e.diag.Warn(fmt.Sprintf("cannot reuse cached output: plugin %s provides neither a cacheKey nor a baseDir; every build will re-transform", ident))
		}
	}
	return nil
}

// hashValue folds an arbitrary configuration value into the digest. Map keys
// are visited sorted; sequences in order; callables follow the three-way
// rule attributed to the owning plugin.
func (e *Engine) hashValue(h *xxhash.Digest, owner string, v any) error {
	switch val := v.(type) {
	case nil:
		writeField(h, "nil")
	case string:
		writeField(h, "s:"+val)
	case bool:
		writeField(h, fmt.Sprintf("b:%t", val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		writeField(h, fmt.Sprintf("%T:%v", val, val))
	case []string:
		writeField(h, fmt.Sprintf("seq:%d", len(val)))
		for _, s := range val {
			writeField(h, "s:"+s)
		}
	case []any:
		writeField(h, fmt.Sprintf("seq:%d", len(val)))
		for _, item := range val {
			if err := e.hashValue(h, owner, item); err != nil {
				return err
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeField(h, fmt.Sprintf("map:%d", len(val)))
		for _, k := range keys {
			writeField(h, k)
			if err := e.hashValue(h, owner, val[k]); err != nil {
				return err
			}
		}
	case *domain.Plugin:
		return e.hashPlugin(h, val)
	case domain.TransformStep:
		return e.hashCallable(h, owner, owner, nil, nil)
	case domain.ResolveFunc:
		return e.hashCallable(h, owner, owner, nil, nil)
	default:
		// A raw func value has no capabilities, so it falls into the
		// uncacheable branch. Anything else hashes by its printed form.
		if reflect.ValueOf(v).Kind() == reflect.Func {
			return e.hashCallable(h, owner, owner, nil, nil)
		}
		writeField(h, fmt.Sprintf("%T:%v", val, val))
	}
	return nil
}

// warnKey identifies a descriptor for warn-once bookkeeping. Anonymous
// descriptors share the same Ident, so they are told apart by address.
func warnKey(p *domain.Plugin) string {
	if p.Name == "" && p.Path == "" {
		return fmt.Sprintf("%s@%p", p.Ident(), p)
	}
	return p.Ident()
}

func writeField(h *xxhash.Digest, s string) {
	_, _ = h.WriteString(s)
	_, _ = h.Write([]byte{0})
}
