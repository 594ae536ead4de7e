// Package config loads the console configuration from .droidsh/config.yaml
// (or a .toml file).
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cgast/droidsh/internal/sandbox"
	"github.com/cgast/droidsh/pkg/loot"
)

// DefaultDir holds the config file, loot and logs unless configured
// otherwise.
const DefaultDir = ".droidsh"

// DefaultPath is where the CLI looks for a config file.
var DefaultPath = filepath.Join(DefaultDir, "config.yaml")

// Config is the runtime configuration.
type Config struct {
	LogLevel string         `yaml:"log_level" toml:"log_level"`
	LogFile  string         `yaml:"log_file" toml:"log_file"`
	Agent    AgentConfig    `yaml:"agent" toml:"agent"`
	Loot     loot.Config    `yaml:"loot" toml:"loot"`
	Geo      GeoConfig      `yaml:"geo" toml:"geo"`
	Sandbox  sandbox.Config `yaml:"sandbox" toml:"sandbox"`
	Console  ConsoleConfig  `yaml:"console" toml:"console"`
}

// AgentConfig says how to reach the agent.
type AgentConfig struct {
	URL     string `yaml:"url" toml:"url"`
	Secret  string `yaml:"secret" toml:"secret"`
	Timeout int    `yaml:"timeout" toml:"timeout"` // seconds
}

// RequestTimeout returns Timeout as a duration.
func (a AgentConfig) RequestTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// GeoConfig configures the WLAN resolver and the links printed for a
// position.
type GeoConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	APIKey     string `yaml:"api_key" toml:"api_key"`
	MapsURL    string `yaml:"maps_url" toml:"maps_url"`
	GeocodeURL string `yaml:"geocode_url" toml:"geocode_url"`
}

// ConsoleConfig shapes the interactive console.
type ConsoleConfig struct {
	Prompt      string `yaml:"prompt" toml:"prompt"`
	Color       string `yaml:"color" toml:"color"` // "auto", "always", "never"
	HistorySize int    `yaml:"history_size" toml:"history_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Agent: AgentConfig{
			URL:     "http://127.0.0.1:4444/rpc",
			Timeout: 60,
		},
		Loot: loot.Config{
			Backend: loot.BackendFile,
			Dir:     filepath.Join(DefaultDir, "loot"),
			DBPath:  filepath.Join(DefaultDir, "loot.db"),
		},
		Sandbox: sandbox.Config{
			DeniedPaths:   []string{"/etc", "/usr", "/bin", "/sbin"},
			MaxReportSize: "64MB",
		},
		Console: ConsoleConfig{
			Prompt:      "droidsh",
			Color:       "auto",
			HistorySize: 1000,
		},
	}
}

// LoadConfig reads path and overlays it on the defaults. The format follows
// the extension; ${VAR} references are expanded before parsing. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	data = []byte(interpolateEnvVars(string(data)))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and ranges.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	switch strings.ToLower(c.Loot.Backend) {
	case "", loot.BackendNone, loot.BackendFile, loot.BackendBolt, loot.BackendGist:
	default:
		return fmt.Errorf("loot.backend %q: want none, file, bolt or gist", c.Loot.Backend)
	}
	switch c.Console.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("console.color %q: want auto, always or never", c.Console.Color)
	}
	if c.Agent.Timeout < 0 {
		return fmt.Errorf("agent.timeout must not be negative")
	}
	return nil
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func interpolateEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match // unresolved
	})
}
