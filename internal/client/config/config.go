package config

import "time"

// Config holds runtime settings for the MyDrive CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the MyDrive HTTP API.
//   - DatabasePath: SQLite file that keeps the local session.
//   - DownloadDir: directory downloaded files are written to.
//   - SessionTTL: how long a login stays valid on this machine.
//   - LogLevel, LogFormat: diagnostics written to stderr.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
	DownloadDir   string
	SessionTTL    time.Duration
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "mydrive.db"
	c.DownloadDir = "download"
	c.SessionTTL = 30 * 24 * time.Hour
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
