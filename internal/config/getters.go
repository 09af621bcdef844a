package config

import "strconv"

// Value returns the string form of a config field by its TOML key.
// Unknown keys return an empty string.
func (c *Config) Value(field string) string {
	switch field {
	case "data_file":
		return c.DataFile
	case "store":
		return c.Store
	case "timezone":
		return c.Timezone
	case "max_name_length":
		return strconv.Itoa(c.MaxNameLength)
	case "default_priority":
		return strconv.Itoa(c.DefaultPriority)
	case "color":
		return c.Color
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	default:
		return ""
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}
