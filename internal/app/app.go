// Package app implements the application layer for refract.
package app

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
	"github.com/refractlabs/refract/internal/engine/pipeline"
)

// App represents the main application logic.
type App struct {
	cfg      *domain.BuildConfig
	pipeline *pipeline.Pipeline
	walker   ports.TreeWalker
	writer   ports.OutputWriter
	logger   ports.Logger
}

// New creates a new App instance.
func New(cfg *domain.BuildConfig, p *pipeline.Pipeline, walker ports.TreeWalker, writer ports.OutputWriter, log ports.Logger) *App {
	return &App{
		cfg:      cfg,
		pipeline: p,
		walker:   walker,
		writer:   writer,
		logger:   log,
	}
}

// Build runs one transform pass over srcDir and mirrors the results into
// outDir.
func (a *App) Build(ctx context.Context, srcDir, outDir string) error {
	files, err := a.walker.Walk(srcDir, a.cfg.Options.Extensions)
	if err != nil {
		return zerr.Wrap(err, "failed to enumerate input files")
	}
	if len(files) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoInputFiles, "no matching files under source dir"), "dir", srcDir)
	}

	res, err := a.pipeline.Run(ctx, &a.cfg.Options, files)
	if err != nil {
		return zerr.Wrap(err, "build failed")
	}

	if err := a.writer.Write(outDir, res.Outputs, res.Graph); err != nil {
		return zerr.Wrap(err, "failed to write outputs")
	}

	a.logger.Info(fmt.Sprintf("transformed %d file(s), %d from cache", res.Misses, res.Hits))
	return nil
}

// Clean removes the persistent transform cache.
func (a *App) Clean() error {
	if err := os.RemoveAll(a.cfg.CacheDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache"), "dir", a.cfg.CacheDir)
	}
	a.logger.Info("cache removed")
	return nil
}
