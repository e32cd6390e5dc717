// Package config loads runtime configuration for the admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via -c/-config or the
//     WCHELPER_CONFIG environment variable. Files ending in .yaml/.yml are
//     read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend server
//	-i int        online status check interval (seconds)
//	-t duration   connection probe timeout
//	-s string     local store driver
//	-d string     local store DSN
//	-l string     log level
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "https://admin.example.com",
//	  "probe_timeout": "5s",
//	  "online_check_interval": "10s",
//	  "store_driver": "sqlite",
//	  "store_dsn": "wchelper.db",
//	  "s3_bucket": "wchelper-backups"
//	}
package config
