package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nibzard/tasktrack/internal/utils"
)

// LoadWithSources loads configuration from multiple sources in priority
// order and tracks the source of each value:
// 1. Defaults
// 2. User config file (~/.tasktrack/tasktrack.toml or OS-specific config dir)
// 3. Project config file (tasktrack.toml or .tasktrack.toml in current directory)
// 4. .env file in the current directory (never overrides the real environment)
// 5. Environment variables
// 6. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	sources := make(map[string]ConfigSource)
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Pull .env into the process environment without clobbering it
	dotEnvKeys, err := loadDotEnv(dotEnvFileName)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFileName, err)
	}

	// 5. Override from environment
	loadFromEnv(cfg, sources, dotEnvKeys)

	// 6. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 7. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// loadConfigFile decodes TOML config from path into cfg, recording every key
// the file defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// loadDotEnv loads a dotenv file if present and returns the keys it set.
// Variables already set to a non-empty value are left untouched.
func loadDotEnv(path string) (map[string]bool, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	set := make(map[string]bool)
	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
		set[key] = true
	}
	return set, nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.Store = utils.NormalizeName(cfg.Store)
	switch cfg.Store {
	case "json", "sqlite":
	case "sqlite3":
		cfg.Store = "sqlite"
	default:
		return fmt.Errorf("invalid store %q (want json or sqlite)", cfg.Store)
	}

	cfg.Color = utils.NormalizeName(cfg.Color)
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	case "":
		cfg.Color = ColorAuto
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", cfg.Color)
	}

	if cfg.MaxNameLength <= 0 || cfg.MaxNameLength > maxReasonableNameLimit {
		return fmt.Errorf("max_name_length must be between 1 and %d, got %d", maxReasonableNameLimit, cfg.MaxNameLength)
	}

	if cfg.DataFile == "" {
		name := DefaultJSONFile
		if cfg.Store == "sqlite" {
			name = DefaultSQLiteFile
		}
		cfg.DataFile = filepath.Join(DefaultDataDir, name)
	}

	// Expand ~ in paths
	cfg.DataFile = expandPath(cfg.DataFile)

	// Relative data paths live under the home directory, never the cwd.
	if !filepath.IsAbs(cfg.DataFile) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.DataFile = filepath.Join(home, cfg.DataFile)
	}

	return nil
}
