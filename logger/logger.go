// Package logger wraps slog with a process-wide handler that the terminal
// front end can redirect into its log panel.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Stdout  bool
	File    string
}

// output is everything a handler is built from.
type output struct {
	cfg     Config
	file    *os.File
	capture io.Writer // set while a front end owns the terminal
}

var (
	mu      sync.RWMutex
	current = output{cfg: Config{Enabled: true}}
	handle  = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// Init applies c. A relative File is placed under dir.
func Init(c Config, dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if current.file != nil {
		_ = current.file.Close()
	}
	current = output{cfg: c, capture: current.capture}

	var err error
	if c.Enabled && c.File != "" {
		current.file, err = openFile(c.File, dir)
	}
	handle = current.build()
	return err
}

// Intercept routes console output to w. The log file keeps receiving
// records.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	current.capture = w
	handle = current.build()
}

// Restore undoes Intercept.
func Restore() {
	Intercept(nil)
}

func (o output) build() *slog.Logger {
	if !o.cfg.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var ws []io.Writer
	switch {
	case o.capture != nil:
		ws = append(ws, o.capture)
	case o.cfg.Stdout || o.file == nil:
		ws = append(ws, os.Stdout)
	}
	if o.file != nil {
		ws = append(ws, o.file)
	}
	return slog.New(slog.NewTextHandler(io.MultiWriter(ws...), &slog.HandlerOptions{
		Level: parseLevel(o.cfg.Level),
	}))
}

func openFile(name, dir string) (*os.File, error) {
	if !filepath.IsAbs(name) && dir != "" {
		name = filepath.Join(dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return f, nil
}

func Debug(msg string, args ...any) { emit(slog.LevelDebug, msg, args) }
func Info(msg string, args ...any)  { emit(slog.LevelInfo, msg, args) }
func Warn(msg string, args ...any)  { emit(slog.LevelWarn, msg, args) }
func Error(msg string, args ...any) { emit(slog.LevelError, msg, args) }

func emit(level slog.Level, msg string, args []any) {
	mu.RLock()
	l := handle
	mu.RUnlock()
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		if strings.EqualFold(strings.TrimSpace(level), "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return l
}
