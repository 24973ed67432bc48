// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/refractlabs/refract/internal/core/domain"
)

// Transformer is the external source-to-source transformer. It is a black
// box: source text plus a canonical per-file configuration in, transformed
// text plus optional metadata out. A rejected file surfaces as an error
// wrapping domain.ErrTransform.
//
//go:generate go run go.uber.org/mock/mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	Transform(ctx context.Context, src []byte, opts *domain.FileOptions) (*domain.TransformResult, error)
}

// PluginLoader resolves a plugin or resolver descriptor into an in-process
// callable. A non-empty path loads the module file at that path; an empty
// path resolves the bare name against the global registry.
type PluginLoader interface {
	Load(name, path string, options map[string]any) (*domain.Plugin, error)
	LoadResolver(name, path string, options map[string]any) (*domain.Plugin, error)
}
