package transform

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
)

var (
	blockBindingRE = regexp.MustCompile(`\b(?:const|let)\b`)
	typeofRE       = regexp.MustCompile(`\btypeof\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
)

func registerBuiltins(r *Registry) {
	r.RegisterStep("block-scoping", func(map[string]any) (domain.TransformStep, error) {
		return blockScoping, nil
	})
	r.RegisterStep("strict-mode", func(map[string]any) (domain.TransformStep, error) {
		return strictMode, nil
	})
	r.RegisterStep("typeof-symbol", func(map[string]any) (domain.TransformStep, error) {
		return typeofSymbol, nil
	})
	r.RegisterResolver("prefix-map", newPrefixMapResolver)
}

// blockScoping lowers block-scoped bindings to function-scoped ones.
func blockScoping(src []byte) ([]byte, []string, error) {
	return blockBindingRE.ReplaceAll(src, []byte("var")), nil, nil
}

// strictMode prepends a strict-mode directive unless one is already there.
func strictMode(src []byte) ([]byte, []string, error) {
	trimmed := strings.TrimLeft(string(src), " \t\r\n")
	if strings.HasPrefix(trimmed, `"use strict"`) || strings.HasPrefix(trimmed, `'use strict'`) {
		return src, nil, nil
	}
	out := append([]byte("\"use strict\";\n"), src...)
	return out, nil, nil
}

// typeofSymbol routes typeof through the typeof runtime helper.
func typeofSymbol(src []byte) ([]byte, []string, error) {
	out := typeofRE.ReplaceAll(src, []byte("_typeof($1)"))
	if string(out) == string(src) {
		return src, nil, nil
	}
	return out, []string{"typeof"}, nil
}

// newPrefixMapResolver rewrites import specifiers by longest prefix match
// and joins relative specifiers against the importing file's directory.
func newPrefixMapResolver(options map[string]any) (domain.ResolveFunc, error) {
	raw, ok := options["prefixes"].(map[string]any)
	if !ok {
		return nil, zerr.Wrap(domain.ErrConfiguration, "prefix-map requires a prefixes mapping")
	}

	prefixes := make(map[string]string, len(raw))
	keys := make([]string, 0, len(raw))
	for prefix, v := range raw {
		replacement, ok := v.(string)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "prefix replacement must be a string"), "prefix", prefix)
		}
		prefixes[prefix] = replacement
		keys = append(keys, prefix)
	}
	// Longest prefix wins.
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	return func(specifier, from string) (string, error) {
		if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
			return path.Join(path.Dir(from), specifier), nil
		}
		for _, prefix := range keys {
			if strings.HasPrefix(specifier, prefix) {
				return prefixes[prefix] + strings.TrimPrefix(specifier, prefix), nil
			}
		}
		return specifier, nil
	}, nil
}
