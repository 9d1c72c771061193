// Package config loads runtime configuration for the MyDrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via -c or -config (see parseFile).
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the MyDrive API
//	-d string   local SQLite database path
//	-o string   download directory
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "720h" or
// integer nanoseconds:
//
//	server_base_url: http://127.0.0.1:8080
//	database_path: mydrive.db
//	download_dir: download
//	session_ttl: 720h
//	log_level: info
//	log_format: json
//
// The package does not read environment variables.
package config
