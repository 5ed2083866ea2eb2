package config

import "strings"

const (
	ModeBridge   = "bridge"
	ModeAppender = "appender"

	defaultMode     = ModeBridge
	defaultPrompt   = "> "
	defaultLogRatio = 0.3
	defaultHostPath = "/bridge"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		UI: UIConfig{
			Mode:     defaultMode,
			Prompt:   defaultPrompt,
			LogRatio: defaultLogRatio,
		},
		Appender: AppenderConfig{
			ClearAfterAdd: boolPtr(true),
		},
		Bridge: BridgeConfig{
			ClearInputAfterSend: boolPtr(true),
			NotifyHost:          boolPtr(true),
		},
		Host: HostConfig{
			Path: defaultHostPath,
		},
		Logging: defaultLoggingConfig(),
	}
	return cfg
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Enabled: boolPtr(true),
		Level:   "info",
		Stdout:  true,
		File:    "logs/uibridge.log",
	}
}

func (c *Config) applyDefaults() {
	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	if c.UI.Mode != ModeBridge && c.UI.Mode != ModeAppender {
		c.UI.Mode = defaultMode
	}
	if c.UI.Prompt == "" {
		c.UI.Prompt = defaultPrompt
	}
	if c.UI.LogRatio <= 0 || c.UI.LogRatio >= 1 {
		c.UI.LogRatio = defaultLogRatio
	}

	if c.Appender.ClearAfterAdd == nil {
		c.Appender.ClearAfterAdd = boolPtr(true)
	}
	if c.Appender.MaxLines < 0 {
		c.Appender.MaxLines = 0
	}
	if c.Bridge.ClearInputAfterSend == nil {
		c.Bridge.ClearInputAfterSend = boolPtr(true)
	}
	if c.Bridge.NotifyHost == nil {
		c.Bridge.NotifyHost = boolPtr(true)
	}
	if c.Host.Path == "" {
		c.Host.Path = defaultHostPath
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		c.Logging.Enabled = boolPtr(true)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}

func boolPtr(v bool) *bool { return &v }
