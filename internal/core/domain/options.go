// Package domain contains the core domain model for the transform cache:
// configuration, plugin descriptors, cache records and the dependency graph.
package domain

import (
	"path"
	"strings"
)

// ModuleIDMode controls whether transformed modules carry a module id.
type ModuleIDMode uint8

const (
	// ModuleIDsOff omits module ids entirely.
	ModuleIDsOff ModuleIDMode = iota
	// ModuleIDsAuto derives the id from the file's relative path.
	ModuleIDsAuto
	// ModuleIDsNamed prefixes the derived id with an explicit root name.
	ModuleIDsNamed
)

// SourceMapMode controls source-map emission.
type SourceMapMode uint8

const (
	// SourceMapsOff disables source maps.
	SourceMapsOff SourceMapMode = iota
	// SourceMapsInline appends the map as a data URL comment.
	SourceMapsInline
	// SourceMapsExternal emits a sidecar map file next to the output.
	SourceMapsExternal
)

// Options is the user-supplied transform configuration. It is constructed
// once per instantiation and defensively copied, so later mutation of the
// caller's value cannot leak into a running pass.
type Options struct {
	Plugins    []*Plugin
	Resolver   *Plugin
	ModuleIDs  ModuleIDMode
	ModuleRoot string
	SourceMaps SourceMapMode

	// Helpers is the runtime-helper allow-list. Nil means unrestricted;
	// an empty non-nil list forbids every helper.
	Helpers []string

	// Extensions selects which files are submitted for transformation at
	// all. It is a filtering concern and is never forwarded to the
	// transformer; the normalizer strips it.
	Extensions []string

	// Extra holds passthrough transformer options not interpreted here.
	Extra map[string]any
}

// Clone returns a deep copy of the options.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	cp := &Options{
		ModuleIDs:  o.ModuleIDs,
		ModuleRoot: o.ModuleRoot,
		SourceMaps: o.SourceMaps,
		Resolver:   o.Resolver.Clone(),
		Extra:      cloneOptionMap(o.Extra),
	}
	if o.Plugins != nil {
		cp.Plugins = make([]*Plugin, len(o.Plugins))
		for i, p := range o.Plugins {
			cp.Plugins[i] = p.Clone()
		}
	}
	if o.Helpers != nil {
		cp.Helpers = append([]string(nil), o.Helpers...)
	}
	if o.Extensions != nil {
		cp.Extensions = append([]string(nil), o.Extensions...)
	}
	return cp
}

// CanonicalConfig is the normalized configuration: descriptors resolved,
// filtering options stripped. It is what the hasher and the transformer see.
type CanonicalConfig struct {
	Plugins    []*Plugin
	Resolver   *Plugin
	ModuleIDs  ModuleIDMode
	ModuleRoot string
	SourceMaps SourceMapMode
	Helpers    []string
	Extra      map[string]any
}

// RequiresInline reports whether any descriptor carries a closure that
// cannot cross a process boundary.
func (c *CanonicalConfig) RequiresInline() bool {
	for _, p := range c.Plugins {
		if !p.Portable() {
			return true
		}
	}
	if c.Resolver != nil && !c.Resolver.Portable() {
		return true
	}
	return false
}

// FileOptions derives the canonical per-file configuration for the file at
// the given relative path. A module id is included only when the
// configuration explicitly requests module identification.
func (c *CanonicalConfig) FileOptions(relPath string) *FileOptions {
	fo := &FileOptions{
		Filename:       relPath,
		SourceFileName: relPath,
		SourceMapName:  relPath + ".map",
		SourceMaps:     c.SourceMaps,
		Plugins:        c.Plugins,
		Resolver:       c.Resolver,
		Extra:          c.Extra,
	}
	switch c.ModuleIDs {
	case ModuleIDsAuto:
		fo.ModuleID = ModuleIdentity(relPath)
	case ModuleIDsNamed:
		fo.ModuleID = path.Join(c.ModuleRoot, ModuleIdentity(relPath))
	case ModuleIDsOff:
	}
	return fo
}

// FileOptions is the canonical per-file configuration handed to the
// transformer, either inline or across the worker boundary.
type FileOptions struct {
	Filename       string
	SourceFileName string
	SourceMapName  string
	ModuleID       string
	SourceMaps     SourceMapMode
	Plugins        []*Plugin
	Resolver       *Plugin
	Extra          map[string]any
}

// Portable reports whether every descriptor in the per-file configuration
// can be shipped to a worker process.
func (fo *FileOptions) Portable() bool {
	for _, p := range fo.Plugins {
		if !p.Portable() {
			return false
		}
	}
	if fo.Resolver != nil && !fo.Resolver.Portable() {
		return false
	}
	return !HasCallable(fo.Extra)
}

// ModuleIdentity derives the stable module identity for a relative file
// path: slash-separated, extension stripped.
func ModuleIdentity(relPath string) string {
	id := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	if ext := path.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return id
}
