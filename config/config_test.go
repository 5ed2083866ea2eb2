package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/linanwx/uibridge/schedule"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)
	defer SetConfigDir("")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Mode != ModeBridge {
		t.Fatalf("UI.Mode = %q, want %q", cfg.UI.Mode, ModeBridge)
	}
	if !cfg.AppenderOptions().ClearAfterAdd {
		t.Fatal("default appender should clear after add")
	}
	bo := cfg.BridgeOptions()
	if !bo.NotifyHost || !bo.ClearInputAfterSend {
		t.Fatalf("default bridge options = %+v", bo)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	SetConfigDir(dir)
	defer SetConfigDir("")

	cfg := DefaultConfig()
	cfg.UI.Mode = ModeAppender
	cfg.Appender.MaxLines = 50
	cfg.Bridge.NotifyHost = boolPtr(false)
	cfg.Bridge.SendTimeoutSeconds = 2
	cfg.Host.Listen = "127.0.0.1:7777"
	cfg.Schedules = []schedule.Job{{ID: "clear", Expr: "@daily", Payload: `{"cmd":"clearOutput"}`}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.UI.Mode != ModeAppender || got.Appender.MaxLines != 50 || got.Host.Listen != "127.0.0.1:7777" {
		t.Fatalf("Load() = %+v", got)
	}
	if got.BridgeOptions().NotifyHost {
		t.Fatal("NotifyHost should round-trip as false")
	}
	if got.BridgeOptions().SendTimeout != 2*time.Second {
		t.Fatalf("SendTimeout = %v, want 2s", got.BridgeOptions().SendTimeout)
	}
	if len(got.Schedules) != 1 || got.Schedules[0].Payload != `{"cmd":"clearOutput"}` {
		t.Fatalf("Schedules = %+v", got.Schedules)
	}
}

func TestApplyDefaultsFillsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "ui:\n  mode: APPENDER\n  logRatio: 4\nappender:\n  maxLines: -3\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.UI.Mode != ModeAppender {
		t.Fatalf("UI.Mode = %q, want appender", cfg.UI.Mode)
	}
	if cfg.UI.LogRatio != defaultLogRatio {
		t.Fatalf("UI.LogRatio = %v, want default", cfg.UI.LogRatio)
	}
	if cfg.Appender.MaxLines != 0 {
		t.Fatalf("Appender.MaxLines = %d, want 0", cfg.Appender.MaxLines)
	}
	if cfg.UI.Prompt != defaultPrompt || cfg.Host.Path != defaultHostPath {
		t.Fatalf("defaults not applied: prompt=%q path=%q", cfg.UI.Prompt, cfg.Host.Path)
	}
	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "debug" {
		t.Fatalf("BuildLoggerConfig() = %+v", lc)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() error = nil, want parse error")
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv(configDirEnv, "/tmp/uibridge-env")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if dir != "/tmp/uibridge-env" {
		t.Fatalf("ConfigDir() = %q", dir)
	}
}
