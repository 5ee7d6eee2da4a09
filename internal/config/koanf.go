// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in priority
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trouvaille/config.yaml",
	"/etc/trouvaille/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// LoadWithKoanf loads configuration in three layers: struct defaults, an
// optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// TROUVAILLE_CATALOG_API_KEY -> catalog.api_key, etc.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as env var strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("config path %s: expected string or slice, got %T", path, val)
		}

		parts := strings.Split(str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("config path %s: %w", path, err)
		}
	}
	return nil
}

// envVarPrefix scopes which environment variables the loader consumes.
const envVarPrefix = "trouvaille_"

// envTransformFunc maps environment variable names to koanf config paths.
// Only TROUVAILLE_-prefixed variables are consumed so unrelated environment
// noise never leaks into the config tree.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if !strings.HasPrefix(key, envVarPrefix) {
		return ""
	}
	key = strings.TrimPrefix(key, envVarPrefix)

	envMappings := map[string]string{
		// Server
		"host":             "server.host",
		"port":             "server.port",
		"read_timeout":     "server.read_timeout",
		"write_timeout":    "server.write_timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"environment":      "server.environment",

		// Catalog
		"catalog_url":     "catalog.url",
		"catalog_api_key": "catalog.api_key",
		"catalog_timeout": "catalog.timeout",

		// Geolocation
		"geolocation_enabled":   "geolocation.enabled",
		"geolocation_url":       "geolocation.url",
		"geolocation_timeout":   "geolocation.timeout",
		"geolocation_cache_ttl": "geolocation.cache_ttl",

		// Discovery engine
		"default_limit":      "discovery.limits.default_limit",
		"max_limit":          "discovery.limits.max_limit",
		"max_candidates":     "discovery.limits.max_candidates",
		"fetch_timeout":      "discovery.limits.fetch_timeout",
		"feed_section_size":  "discovery.feed.section_size",
		"diversity_bonus":    "discovery.feed.diversity_bonus",
		"velocity_estimator": "discovery.velocity_estimator",
		"shuffle_seed":       "discovery.seed",

		// Security
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",
		"cors_origins":        "security.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown TROUVAILLE_ variables fall through as dotted paths so new
	// config keys work without a mapping entry.
	return strings.ReplaceAll(key, "__", ".")
}
