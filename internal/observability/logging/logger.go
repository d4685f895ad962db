// Package logging provides structured logging with zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	TimeFormat string
	// Dir enables a JSON file sink at Dir/FileName next to stdout.
	Dir      string
	FileName string
}

// DefaultConfig returns the service logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
		FileName:   "stt-gateway.log",
	}
}

// Init replaces the global zerolog logger. Close the returned closer on exit
// to release the file sink.
func Init(cfg Config) (io.Closer, error) {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := consoleOrJSON(cfg.Format)
	var closer io.Closer = nopCloser{}
	if cfg.Dir != "" {
		f, err := openLogFile(cfg.Dir, cfg.FileName)
		if err != nil {
			return nil, err
		}
		out = zerolog.MultiLevelWriter(out, f)
		closer = f
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	return closer, nil
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

func consoleOrJSON(format string) io.Writer {
	if format == "console" {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	return os.Stdout
}

func openLogFile(dir, name string) (*os.File, error) {
	if name == "" {
		name = DefaultConfig().FileName
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// WithSession tags log lines with a session id.
func WithSession(sessionID string) zerolog.Logger {
	return log.With().Str("sessionId", sessionID).Logger()
}

// WithBackend tags log lines with a session id and the STT provider serving it.
func WithBackend(sessionID, provider string) zerolog.Logger {
	return log.With().
		Str("sessionId", sessionID).
		Str("sttProvider", provider).
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
