package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the application logger: a tint handler on stderr, optionally
// fanned out to a timestamped log file. The returned logger is passed to
// components as a capability; nothing here touches slog's global default.
func New(verbose bool, logToFile bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	w := io.Writer(os.Stderr)
	noColor := false
	if logToFile {
		name := fmt.Sprintf("cora_%s.log", time.Now().Format("20060102_150405"))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		noColor = true
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything, for quiet paths and tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
