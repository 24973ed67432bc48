package domain

import (
	"fmt"
	"reflect"
)

// TransformStep is an in-process transform callable. It receives source text
// and returns the rewritten text plus the names of any runtime helpers the
// rewrite relied on.
type TransformStep func(src []byte) (out []byte, helpers []string, err error)

// ResolveFunc rewrites a module import specifier. It is the callable form of
// a module resolver, invoked once per import with the importing file's path.
type ResolveFunc func(specifier, from string) (string, error)

// PluginKind identifies which representation of a plugin descriptor is
// active. Exactly one form is active per descriptor.
type PluginKind uint8

const (
	// PluginByName is a bare name identifying a globally resolvable plugin.
	PluginByName PluginKind = iota
	// PluginFromModule is an out-of-process descriptor: a {name, module
	// path, options} triple loadable inside a worker process.
	PluginFromModule
	// PluginInline is an in-process callable. Its closure cannot cross a
	// process boundary, so jobs carrying one execute inline.
	PluginInline
)

// Plugin is the tagged-variant descriptor for both plugins and module
// resolvers. The Kind field selects the active representation; the optional
// CacheKey and BaseDir capabilities make an inline callable hashable.
type Plugin struct {
	Kind    PluginKind
	Name    string
	Path    string
	Options map[string]any

	// Fn is set for resolved module descriptors and inline plugin callables.
	Fn TransformStep
	// Resolve is set instead of Fn when the descriptor is a module resolver.
	Resolve ResolveFunc

	// CacheKey, when present, returns a stable string identifying the
	// callable's behavior for hashing.
	CacheKey func() string
	// BaseDir, when present, returns an absolute directory whose content
	// stands in for the callable's version.
	BaseDir func() string
}

// Portable reports whether the descriptor can be shipped to a worker
// process. Module descriptors are re-resolved on the worker side from their
// {name, path, options} triple; inline callables cannot cross the boundary,
// and neither can a descriptor whose options nest one.
func (p *Plugin) Portable() bool {
	if p.Kind == PluginInline {
		return false
	}
	return !HasCallable(p.Options)
}

// HasCallable reports whether a configuration value carries an in-process
// callable anywhere in its nesting. Such a value cannot be serialized for a
// worker process.
func HasCallable(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case TransformStep, ResolveFunc, func() string:
		return val != nil
	case *Plugin:
		if val == nil {
			return false
		}
		return val.Kind == PluginInline ||
			val.Fn != nil || val.Resolve != nil ||
			val.CacheKey != nil || val.BaseDir != nil ||
			HasCallable(val.Options)
	case map[string]any:
		for _, e := range val {
			if HasCallable(e) {
				return true
			}
		}
		return false
	case []any:
		for _, e := range val {
			if HasCallable(e) {
				return true
			}
		}
		return false
	default:
		return reflect.ValueOf(v).Kind() == reflect.Func
	}
}

// Ident returns a human-readable identity for diagnostics.
func (p *Plugin) Ident() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Path != "" {
		return p.Path
	}
	return "anonymous plugin"
}

// Clone returns a deep copy of the descriptor. Callables are shared (they
// are immutable by convention); option maps are copied.
func (p *Plugin) Clone() *Plugin {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Options = cloneOptionMap(p.Options)
	return &cp
}

func cloneOptionMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneOptionValue(v)
	}
	return out
}

func cloneOptionValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneOptionMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneOptionValue(e)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case *Plugin:
		return val.Clone()
	default:
		return v
	}
}

func (k PluginKind) String() string {
	switch k {
	case PluginByName:
		return "name"
	case PluginFromModule:
		return "module"
	case PluginInline:
		return "inline"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}
