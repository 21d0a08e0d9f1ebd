package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig locates the local settings database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SeedConfig points at a YAML board seed. An empty path loads the
// built-in demo board.
type SeedConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme overrides the theme stored in settings when non-empty.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the file logger. The terminal belongs to the UI,
// so logs never go to stdout.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Output string `mapstructure:"output" yaml:"output"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Seed    SeedConfig    `mapstructure:"seed" yaml:"seed"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/workboard, falling back to the working
// directory when the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "workboard")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/workboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Storage: StorageConfig{Path: filepath.Join(dir, "workboard.db")},
		Log: LogConfig{
			Level:  "info",
			Output: filepath.Join(dir, "workboard.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("seed.path", "")
	v.SetDefault("display.theme", "")
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.output", def.Log.Output)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.Theme != "" && !Theme(cfg.Display.Theme).Valid() {
		return nil, fmt.Errorf("config %s: unknown theme %q", path, cfg.Display.Theme)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("seed", cfg.Seed)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
