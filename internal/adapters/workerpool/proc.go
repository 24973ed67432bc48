package workerpool

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

var _ ports.WorkerFactory = (*ProcFactory)(nil)

// ProcFactory spawns worker processes by re-executing the current binary
// with the hidden worker subcommand. Out-of-process execution isolates
// non-reentrant or crashing transform code from the controlling process.
type ProcFactory struct {
	exe  string
	args []string
	log  ports.Logger
}

// NewProcFactory creates a factory bound to the current executable.
func NewProcFactory(log ports.Logger) (*ProcFactory, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return &ProcFactory{exe: exe, args: []string{"worker"}, log: log}, nil
}

// Spawn starts a fresh worker process with its stdio wired to the protocol.
func (f *ProcFactory) Spawn(ctx context.Context) (ports.Worker, error) {
	cmd := exec.CommandContext(ctx, f.exe, f.args...) //nolint:gosec // re-executes our own binary

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open worker stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open worker stdout")
	}
	cmd.Stderr = &logWriter{log: f.log}

	if err := cmd.Start(); err != nil {
		return nil, zerr.Wrap(err, "failed to start worker process")
	}

	return &procWorker{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(stdout),
	}, nil
}

// procWorker is one live worker process with at most one in-flight job.
type procWorker struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
	dec   *json.Decoder
}

// Run ships one job to the process and waits for its response. A broken
// stream means the process died mid-job and surfaces as ErrWorkerCrashed; a
// transform error reported by the worker is terminal and not a crash.
func (w *procWorker) Run(ctx context.Context, job *domain.Job) (*domain.TransformResult, error) {
	wo, err := encodeOptions(job.Options)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, err.Error()), "path", job.Path)
	}

	req := jobRequest{Path: job.Path, Source: job.Source, Options: *wo}
	if err := w.enc.Encode(req); err != nil {
		// A marshal failure is a local configuration problem; only a broken
		// pipe means the process died.
		if isMarshalError(err) {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "job options are not serializable"), "path", job.Path)
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkerCrashed, "failed to write job to worker"), "path", job.Path)
	}

	var resp jobResponse
	if err := w.dec.Decode(&resp); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkerCrashed, "worker exited before responding"), "path", job.Path)
	}

	if resp.TransformError != "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrTransform, resp.TransformError), "path", job.Path)
	}

	return &domain.TransformResult{
		Code:      resp.Code,
		SourceMap: resp.SourceMap,
		Helpers:   resp.Helpers,
		Module:    resp.Module,
	}, nil
}

// Close terminates the process. Closing stdin lets a healthy worker exit
// its serve loop; a stuck one is killed.
func (w *procWorker) Close() error {
	_ = w.stdin.Close()
	if w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
	}
	_ = w.cmd.Wait()
	return nil
}

func isMarshalError(err error) bool {
	var typeErr *json.UnsupportedTypeError
	var valueErr *json.UnsupportedValueError
	var marshalerErr *json.MarshalerError
	return errors.As(err, &typeErr) || errors.As(err, &valueErr) || errors.As(err, &marshalerErr)
}

// logWriter forwards worker stderr lines to the controller's logger.
type logWriter struct {
	log ports.Logger
}

func (lw *logWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line != "" {
			lw.log.Warn("worker: " + line)
		}
	}
	return len(p), nil
}
