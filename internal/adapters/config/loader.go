// Package config provides the configuration loader for refract.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/refractlabs/refract/internal/core/domain"
)

// DefaultFilename is the configuration file looked up in the working
// directory.
const DefaultFilename = "refract.yaml"

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct {
	Filename string
}

func NewFileLoader() *FileLoader {
	return &FileLoader{Filename: DefaultFilename}
}

// Load reads the configuration from the given working directory.
func (l *FileLoader) Load(cwd string) (*domain.BuildConfig, error) {
	return Load(filepath.Join(cwd, l.Filename))
}

// Load reads a configuration file from the given path.
func Load(path string) (*domain.BuildConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file refractFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(zerr.Wrap(domain.ErrConfiguration, err.Error()), "failed to parse config file")
	}

	moduleIDs, moduleRoot, err := decodeModuleIDs(file.ModuleIDs)
	if err != nil {
		return nil, err
	}
	sourceMaps, err := decodeSourceMaps(file.SourceMaps)
	if err != nil {
		return nil, err
	}

	opts := domain.Options{
		ModuleIDs:  moduleIDs,
		ModuleRoot: moduleRoot,
		SourceMaps: sourceMaps,
		Extensions: file.Extensions,
		Extra:      file.Extra,
	}

	// A present but empty helpers list forbids every helper; an absent key
	// leaves helper use unrestricted.
	if file.Helpers != nil {
		opts.Helpers = *file.Helpers
		if opts.Helpers == nil {
			opts.Helpers = []string{}
		}
	}

	for _, dto := range file.Plugins {
		p, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		opts.Plugins = append(opts.Plugins, p)
	}
	if file.Resolver != nil {
		r, err := file.Resolver.toDomain()
		if err != nil {
			return nil, err
		}
		opts.Resolver = r
	}

	cacheDir := file.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(path), ".refract")
	}

	return &domain.BuildConfig{
		Options:  opts,
		CacheDir: cacheDir,
		Jobs:     file.Jobs,
	}, nil
}
