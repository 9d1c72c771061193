package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/mydrive/internal/flagx"
	"github.com/dmitrijs2005/mydrive/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Durations go through timex.Duration so a file can say "720h".
// Empty fields leave the current value untouched.
type FileConfig struct {
	ServerBaseURL string         `json:"server_base_url" yaml:"server_base_url"`
	DatabasePath  string         `json:"database_path" yaml:"database_path"`
	DownloadDir   string         `json:"download_dir" yaml:"download_dir"`
	SessionTTL    timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	LogLevel      string         `json:"log_level" yaml:"log_level"`
	LogFormat     string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays Config with values loaded from the file given by -c or
// -config. Files ending in .yaml or .yml are decoded as YAML, anything else
// as JSON. Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	var fc FileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", path, err)
		}
	}

	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.ServerBaseURL != "" {
		cfg.ServerBaseURL = fc.ServerBaseURL
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
}
