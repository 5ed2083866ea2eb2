// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/uibridge/appender"
	"github.com/linanwx/uibridge/bridge"
	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/schedule"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".uibridge"
	configDirEnv   = "UIBRIDGE_CONFIG_DIR"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	UI        UIConfig       `json:"ui" yaml:"ui"`
	Appender  AppenderConfig `json:"appender" yaml:"appender"`
	Bridge    BridgeConfig   `json:"bridge" yaml:"bridge"`
	Host      HostConfig     `json:"host" yaml:"host"`
	Schedules []schedule.Job `json:"schedules,omitempty" yaml:"schedules,omitempty"`
	Logging   LoggingConfig  `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// UIConfig selects which component the front end drives.
type UIConfig struct {
	// Mode is "bridge" or "appender".
	Mode   string `json:"mode" yaml:"mode"`
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	// ScrollBottom is the normalized scroll position meaning "bottom".
	ScrollBottom float64 `json:"scrollBottom" yaml:"scrollBottom"`
	// LogRatio is the share of the screen height given to the log panel.
	LogRatio float64 `json:"logRatio,omitempty" yaml:"logRatio,omitempty"`
}

// AppenderConfig mirrors appender.Options.
type AppenderConfig struct {
	ClearAfterAdd *bool `json:"clearAfterAdd,omitempty" yaml:"clearAfterAdd,omitempty"`
	MaxLines      int   `json:"maxLines,omitempty" yaml:"maxLines,omitempty"` // 0 = unlimited
}

// BridgeConfig mirrors bridge.Options.
type BridgeConfig struct {
	ClearInputAfterSend *bool `json:"clearInputAfterSend,omitempty" yaml:"clearInputAfterSend,omitempty"`
	NotifyHost          *bool `json:"notifyHost,omitempty" yaml:"notifyHost,omitempty"`
	SendTimeoutSeconds  int   `json:"sendTimeoutSeconds,omitempty" yaml:"sendTimeoutSeconds,omitempty"`
}

// HostConfig selects the host links.
type HostConfig struct {
	Listen         string   `json:"listen,omitempty" yaml:"listen,omitempty"`   // websocket listen addr, empty = off
	Path           string   `json:"path,omitempty" yaml:"path,omitempty"`       // websocket path
	Connect        string   `json:"connect,omitempty" yaml:"connect,omitempty"` // websocket URL to dial, empty = off
	Stdio          bool     `json:"stdio,omitempty" yaml:"stdio,omitempty"`     // newline-delimited payloads on stdin/stdout
	Echo           bool     `json:"echo,omitempty" yaml:"echo,omitempty"`       // log outbound events
	OriginPatterns []string `json:"originPatterns,omitempty" yaml:"originPatterns,omitempty"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := strings.TrimSpace(os.Getenv(configDirEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml. A missing file yields DefaultConfig.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path and fills defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes cfg to config.yaml.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes cfg to path, creating the directory if needed.
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// AppenderOptions converts the appender section.
func (c *Config) AppenderOptions() appender.Options {
	opts := appender.DefaultOptions()
	if c.Appender.ClearAfterAdd != nil {
		opts.ClearAfterAdd = *c.Appender.ClearAfterAdd
	}
	if c.Appender.MaxLines > 0 {
		opts.MaxLines = c.Appender.MaxLines
	}
	return opts
}

// BridgeOptions converts the bridge section.
func (c *Config) BridgeOptions() bridge.Options {
	opts := bridge.DefaultOptions()
	if c.Bridge.ClearInputAfterSend != nil {
		opts.ClearInputAfterSend = *c.Bridge.ClearInputAfterSend
	}
	if c.Bridge.NotifyHost != nil {
		opts.NotifyHost = *c.Bridge.NotifyHost
	}
	if c.Bridge.SendTimeoutSeconds > 0 {
		opts.SendTimeout = time.Duration(c.Bridge.SendTimeoutSeconds) * time.Second
	}
	return opts
}

// BuildLoggerConfig converts the logging section.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
