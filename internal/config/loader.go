package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ASSAY_CONFIG is set
//  3. env (prefix ASSAY_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ASSAY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: ASSAY_ADDR, ASSAY_STORAGE_DIR, ...
	// Map env keys like ASSAY_STORAGE_DIR -> storage_dir (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ASSAY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "assay_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.StorageDir == "" {
		return nil, errors.New("storage_dir must not be empty")
	}
	if cfg.GenerationEndpoint != "" && cfg.GenerationAPIKey == "" {
		return nil, errors.New("generation_api_key must be set when generation_endpoint is set")
	}
	return &cfg, nil
}
