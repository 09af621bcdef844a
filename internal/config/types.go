package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest precedence first.
	Files []string
}

// Default values.
const (
	DefaultDataDir         = "~/.tasktrack"
	DefaultJSONFile        = "todo.json"
	DefaultSQLiteFile      = "todo.db"
	DefaultStore           = "json"
	DefaultTimezone        = "America/Chicago"
	DefaultMaxNameLength   = 20
	DefaultPriority        = 1
	DefaultColor           = ColorAuto
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
	configFileName         = "tasktrack.toml"
	hiddenConfigFileName   = ".tasktrack.toml"
	userConfigDirName      = ".tasktrack"
	osConfigDirName        = "tasktrack"
	dotEnvFileName         = ".env"
	envPrefix              = "TASKTRACK_"
	defaultFlagSetName     = "tasktrack"
	maxReasonableNameLimit = 1024
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the full configuration for tasktrack.
type Config struct {
	// Storage
	DataFile string `toml:"data_file"`
	Store    string `toml:"store"`

	// Tasks
	Timezone        string `toml:"timezone"`
	MaxNameLength   int    `toml:"max_name_length"`
	DefaultPriority int    `toml:"default_priority"`

	// Output
	Color string `toml:"color"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"store",
		"timezone",
		"max_name_length",
		"default_priority",
		"color",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = ""
	cfg.Store = DefaultStore
	cfg.Timezone = DefaultTimezone
	cfg.MaxNameLength = DefaultMaxNameLength
	cfg.DefaultPriority = DefaultPriority
	cfg.Color = DefaultColor
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
