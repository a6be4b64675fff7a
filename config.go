package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Addr        string   `yaml:"addr" json:"addr"`                 // Listen address, ":0" picks a free port
	OpenBrowser bool     `yaml:"open_browser" json:"open_browser"` // Open the system browser on start
	ReleaseMode bool     `yaml:"release_mode" json:"release_mode"` // gin release mode (quiet routing logs)
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"` // Origins allowed to call /api
}

// GetAddr returns the listen address, using default if not set
func (s *ServerConfig) GetAddr() string {
	if s.Addr == "" {
		return "localhost:8080"
	}
	return s.Addr
}

// DataConfig controls where fixtures are read from
type DataConfig struct {
	Dir        string `yaml:"dir" json:"dir"`                 // Fixture directory; empty uses the embedded copy
	Watch      bool   `yaml:"watch" json:"watch"`             // Reload fixtures when files in Dir change
	DebounceMS int    `yaml:"debounce_ms" json:"debounce_ms"` // Quiet period before a reload
}

// GetDebounce returns the reload debounce delay, using default if not set
func (d *DataConfig) GetDebounce() time.Duration {
	if d.DebounceMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(d.DebounceMS) * time.Millisecond
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" json:"json"`   // Structured JSON instead of console output
}

// ReportConfig holds export settings
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"` // Parent folder for dated HTML exports
}

// GetOutputDir returns the export folder, using default if not set
func (r *ReportConfig) GetOutputDir() string {
	if r.OutputDir == "" {
		return "reports"
	}
	return r.OutputDir
}

// UIConfig holds the embedded window settings
type UIConfig struct {
	Title  string `yaml:"title" json:"title"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Config holds the complete configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Data    DataConfig    `yaml:"data" json:"data"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Report  ReportConfig  `yaml:"report" json:"report"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
}

// LoadDefaultConfig loads the default configuration from embedded default-config.yaml
func LoadDefaultConfig() (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &config); err != nil {
		return nil, fmt.Errorf("parse embedded default config: %w", err)
	}
	return &config, nil
}

// LoadConfig loads the defaults, overlays filename when it exists, then
// applies .env and ZP_* environment overrides
func LoadConfig(filename string) (*Config, error) {
	config, err := LoadDefaultConfig()
	if err != nil {
		return nil, err
	}

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", filename, err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", filename, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides lets deployments change settings without a config file
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ZP_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("ZP_DATA_DIR"); v != "" {
		config.Data.Dir = v
	}
	if v := os.Getenv("ZP_DATA_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Data.Watch = b
		}
	}
	if v := os.Getenv("ZP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("ZP_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.JSON = b
		}
	}
	if v := os.Getenv("ZP_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		config.Server.CORSOrigins = origins
	}
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# Zurich Perspectives configuration
# Generated by "zurich-perspectives config init" - feel free to edit manually
#
# Environment overrides (also read from .env):
#   ZP_ADDR, ZP_DATA_DIR, ZP_DATA_WATCH, ZP_LOG_LEVEL, ZP_LOG_JSON, ZP_CORS_ORIGINS
#
# See default-config.yaml for all available options with comments.

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}
