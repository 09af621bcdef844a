package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktrack configuration file
# Values can be overridden by TASKTRACK_* environment variables or CLI flags

# Task file (relative paths are resolved against the home directory)
# data_file = "~/.tasktrack/todo.json"

# Storage driver: json or sqlite
store = "json"

# Timezone used for creation and completion timestamps
timezone = "America/Chicago"

# Longest task name accepted by add
max_name_length = 20

# Priority given to new tasks when -priority is not passed
default_priority = 1

# Color output: auto, always or never
color = "auto"

# Logging (written to stderr)
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
