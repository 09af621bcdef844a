package config

import (
	"flag"
)

// parseFlags defines the global CLI flags on fs and parses args.
// Flags that were explicitly set are recorded in sources when it is non-nil.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(defaultFlagSetName, flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataFile, "file", cfg.DataFile, "Path to the task file")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Storage driver (json, sqlite)")

	// Tasks
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone for timestamps")

	// Output
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Color output (auto, always, never)")
	noColor := fs.Bool("no-color", false, "Disable color output")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *noColor {
		cfg.Color = ColorNever
	}

	flagToSource := map[string]string{
		"file":           "data_file",
		"store":          "store",
		"timezone":       "timezone",
		"color":          "color",
		"no-color":       "color",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}
	fs.Visit(func(f *flag.Flag) {
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
