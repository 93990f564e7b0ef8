package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the per-directory config file
const FileName = ".filtergrid.toml"

// Selection modes
const (
	ModeList = "list"
	ModeGrid = "grid"
)

// Filter kinds
const (
	FilterSubstring = "substring"
	FilterFuzzy     = "fuzzy"
	FilterRegex     = "regex"
)

// ErrInvalidConfig is returned when a loaded config fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version    int              `toml:"version"`
	Projection ProjectionConfig `toml:"projection"`
	Selection  SelectionConfig  `toml:"selection"`
	UI         UISettings       `toml:"ui"`
	Log        LogConfig        `toml:"log"`
}

// ProjectionConfig controls how the filtered view reports changes
type ProjectionConfig struct {
	CoalesceRangeAdds bool `toml:"coalesce_range_adds"`
}

// SelectionConfig picks which component owns the selection
type SelectionConfig struct {
	Mode string `toml:"mode"` // "list" or "grid"
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowLineNumbers bool   `toml:"show_line_numbers"`
	DefaultSort     string `toml:"default_sort"`
	FilterKind      string `toml:"filter_kind"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "filtergrid", "config.toml"),
	}
}

// Resolve picks the config file to use: an explicit path, then FileName in
// dir, then the user config file.
func Resolve(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	local := filepath.Join(dir, FileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return NewConfigService().Path()
}

// Path returns the user config file
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the user config file. A missing file
// yields the defaults.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to the user config file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := config.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Encode renders the config as TOML
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Selection.Mode {
	case ModeList, ModeGrid:
	default:
		return fmt.Errorf("selection mode %q: %w", c.Selection.Mode, ErrInvalidConfig)
	}
	switch c.UI.FilterKind {
	case FilterSubstring, FilterFuzzy, FilterRegex:
	default:
		return fmt.Errorf("filter kind %q: %w", c.UI.FilterKind, ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Projection: ProjectionConfig{
			CoalesceRangeAdds: true,
		},
		Selection: SelectionConfig{
			Mode: ModeList,
		},
		UI: UISettings{
			ShowLineNumbers: false,
			DefaultSort:     "none",
			FilterKind:      FilterSubstring,
		},
		Log: LogConfig{
			Level: "info",
			File:  "filtergrid.log",
		},
	}
}
