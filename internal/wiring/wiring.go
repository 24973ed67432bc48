// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/refractlabs/refract/internal/adapters/cache"
	_ "github.com/refractlabs/refract/internal/adapters/config"
	_ "github.com/refractlabs/refract/internal/adapters/fs"
	_ "github.com/refractlabs/refract/internal/adapters/logger"
	_ "github.com/refractlabs/refract/internal/adapters/telemetry/progrock"
	_ "github.com/refractlabs/refract/internal/adapters/transform"
	_ "github.com/refractlabs/refract/internal/adapters/workerpool"
	// Register app and engine nodes.
	_ "github.com/refractlabs/refract/internal/app"
	_ "github.com/refractlabs/refract/internal/engine/pipeline"
)
