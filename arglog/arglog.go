// Package arglog configures the structured logger the engine and its
// observers write through, mirroring the teacher's logger package: a
// package-level slog.Logger, JSON or text output, and file rotation via
// lumberjack when writing to disk.
package arglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger. It starts as a stdout JSON logger at
// info level, built by New; Init or InitWithConfig replace it.
var Log = New(Config{Level: "info", Format: "json", Output: "stdout"})

// Config controls where and how the engine logs.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, stderr, file
	FilePath   string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init sets Log to a stdout JSON logger at level.
func Init(level string) {
	Log = New(Config{Level: level, Format: "json", Output: "stdout"})
}

// InitWithConfig sets Log from a full Config and returns it.
func InitWithConfig(cfg Config) *slog.Logger {
	Log = New(cfg)
	return Log
}

// New builds a logger from cfg without touching the package-level Log,
// for callers that want a scoped logger (e.g. one per run) rather than
// mutating global state.
func New(cfg Config) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stderr":
		writer = os.Stderr
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = "logs/argmin.log"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			writer = os.Stdout
		} else {
			writer = &lumberjack.Logger{
				Filename:   path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
		}
	default:
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}
	return slog.New(handler)
}

// WithRun returns a logger tagged with a run identifier, for correlating
// log lines with a checkpoint or trace across one Executor.Run call.
func WithRun(runID string) *slog.Logger {
	return Log.With("run_id", runID)
}
