// Package devserver runs an in-memory MyDrive API for local development
// and end-to-end tests of the CLI.
package devserver

// Config holds runtime settings for the dev server.
//
// Fields:
//   - Addr: bind address of the HTTP API.
//   - SeedFile: optional TOML file with users and groups created at start.
//   - LogLevel, LogFormat: request and diagnostic logging.
type Config struct {
	Addr      string
	SeedFile  string
	LogLevel  string
	LogFormat string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.LogLevel = "info"
	c.LogFormat = "text"
}
