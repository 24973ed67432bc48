package workerpool

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

// The worker protocol is newline-delimited JSON over the worker's stdio:
// one jobRequest in, one jobResponse out, in order. A transform error
// travels inside the response; an absent response means the process died.

type wirePlugin struct {
	Kind    string         `json:"kind"`
	Name    string         `json:"name,omitempty"`
	Path    string         `json:"path,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type wireOptions struct {
	Filename       string         `json:"filename"`
	SourceFileName string         `json:"source_file_name"`
	SourceMapName  string         `json:"source_map_name"`
	ModuleID       string         `json:"module_id,omitempty"`
	SourceMaps     uint8          `json:"source_maps"`
	Plugins        []wirePlugin   `json:"plugins,omitempty"`
	Resolver       *wirePlugin    `json:"resolver,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

type jobRequest struct {
	Path    string      `json:"path"`
	Source  []byte      `json:"source"`
	Options wireOptions `json:"options"`
}

type jobResponse struct {
	Code           []byte             `json:"code,omitempty"`
	SourceMap      []byte             `json:"source_map,omitempty"`
	Helpers        []string           `json:"helpers,omitempty"`
	Module         *domain.ModuleInfo `json:"module,omitempty"`
	TransformError string             `json:"transform_error,omitempty"`
}

func encodePlugin(p *domain.Plugin) (*wirePlugin, error) {
	switch p.Kind {
	case domain.PluginByName:
		return &wirePlugin{Kind: "name", Name: p.Name}, nil
	case domain.PluginFromModule:
		return &wirePlugin{Kind: "module", Name: p.Name, Path: p.Path, Options: p.Options}, nil
	default:
		return nil, zerr.With(zerr.New("inline plugin cannot cross the worker boundary"), "plugin", p.Ident())
	}
}

func encodeOptions(fo *domain.FileOptions) (*wireOptions, error) {
	wo := &wireOptions{
		Filename:       fo.Filename,
		SourceFileName: fo.SourceFileName,
		SourceMapName:  fo.SourceMapName,
		ModuleID:       fo.ModuleID,
		SourceMaps:     uint8(fo.SourceMaps),
		Extra:          fo.Extra,
	}
	for _, p := range fo.Plugins {
		wp, err := encodePlugin(p)
		if err != nil {
			return nil, err
		}
		wo.Plugins = append(wo.Plugins, *wp)
	}
	if fo.Resolver != nil {
		wp, err := encodePlugin(fo.Resolver)
		if err != nil {
			return nil, err
		}
		wo.Resolver = wp
	}
	return wo, nil
}

// decode rebuilds per-file options on the worker side, re-resolving module
// descriptors through the loader. Bare names are left for the transformer's
// own registry lookup.
func (wo *wireOptions) decode(loader ports.PluginLoader) (*domain.FileOptions, error) {
	fo := &domain.FileOptions{
		Filename:       wo.Filename,
		SourceFileName: wo.SourceFileName,
		SourceMapName:  wo.SourceMapName,
		ModuleID:       wo.ModuleID,
		SourceMaps:     domain.SourceMapMode(wo.SourceMaps),
		Extra:          wo.Extra,
	}
	for _, wp := range wo.Plugins {
		p, err := decodePlugin(&wp, loader, false)
		if err != nil {
			return nil, err
		}
		fo.Plugins = append(fo.Plugins, p)
	}
	if wo.Resolver != nil {
		p, err := decodePlugin(wo.Resolver, loader, true)
		if err != nil {
			return nil, err
		}
		fo.Resolver = p
	}
	return fo, nil
}

func decodePlugin(wp *wirePlugin, loader ports.PluginLoader, isResolver bool) (*domain.Plugin, error) {
	switch wp.Kind {
	case "name":
		return &domain.Plugin{Kind: domain.PluginByName, Name: wp.Name}, nil
	case "module":
		if isResolver {
			return loader.LoadResolver(wp.Name, wp.Path, wp.Options)
		}
		return loader.Load(wp.Name, wp.Path, wp.Options)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "unknown wire plugin kind"), "kind", wp.Kind)
	}
}

// Serve runs the worker side of the protocol until stdin closes. Transform
// failures (including descriptor re-resolution failures) are reported inside
// the response; only a broken stream ends the loop with an error.
func Serve(ctx context.Context, r io.Reader, w io.Writer, transformer ports.Transformer, loader ports.PluginLoader) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)

	for {
		var req jobRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return zerr.Wrap(err, "failed to decode job request")
		}

		resp := serveOne(ctx, &req, transformer, loader)
		if err := enc.Encode(resp); err != nil {
			return zerr.Wrap(err, "failed to encode job response")
		}
	}
}

func serveOne(ctx context.Context, req *jobRequest, transformer ports.Transformer, loader ports.PluginLoader) *jobResponse {
	opts, err := req.Options.decode(loader)
	if err != nil {
		return &jobResponse{TransformError: err.Error()}
	}

	res, err := transformer.Transform(ctx, req.Source, opts)
	if err != nil {
		return &jobResponse{TransformError: err.Error()}
	}

	return &jobResponse{
		Code:      res.Code,
		SourceMap: res.SourceMap,
		Helpers:   res.Helpers,
		Module:    res.Module,
	}
}
