package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKTRACK_* environment variables.
// Keys listed in dotEnv came from the .env file and are attributed to it.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, dotEnv map[string]bool) {
	mark := func(field, key string) {
		if sources == nil {
			return
		}
		if dotEnv[key] {
			sources[field] = SourceDotEnv
			return
		}
		sources[field] = SourceEnv
	}
	lookup := func(name string) (string, string, bool) {
		key := envPrefix + name
		v := os.Getenv(key)
		return key, v, v != ""
	}

	if key, v, ok := lookup("FILE"); ok {
		cfg.DataFile = v
		mark("data_file", key)
	}
	if key, v, ok := lookup("STORE"); ok {
		cfg.Store = v
		mark("store", key)
	}
	if key, v, ok := lookup("TIMEZONE"); ok {
		cfg.Timezone = v
		mark("timezone", key)
	}
	if key, v, ok := lookup("MAX_NAME_LENGTH"); ok {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.MaxNameLength = i
			mark("max_name_length", key)
		}
	}
	if key, v, ok := lookup("DEFAULT_PRIORITY"); ok {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.DefaultPriority = i
			mark("default_priority", key)
		}
	}
	if key, v, ok := lookup("COLOR"); ok {
		cfg.Color = v
		mark("color", key)
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.Color = ColorNever
		mark("color", "NO_COLOR")
	}

	// Logging configuration
	if key, v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
		mark("log_level", key)
	}
	if key, v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
		mark("log_format", key)
	}
	if key, v, ok := lookup("LOG_TIMESTAMPS"); ok {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps", key)
	}
	if key, v, ok := lookup("LOG_CALLER"); ok {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller", key)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
