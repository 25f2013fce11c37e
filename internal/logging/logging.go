// Package logging configures the global slog logger for clipy binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
	slogmulti "github.com/samber/slog-multi"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Options configures Setup. Only Format and Level apply to the console.
type Options struct {
	Format Format
	Level  slog.Level
	// File, when set, receives a JSON copy of every record.
	File string
	// Journal sends records to the systemd journal (Linux only).
	Journal bool
}

// Setup configures the global slog logger. Call once after flag/viper
// parsing. The returned func closes the log file, if any.
func Setup(opts Options) (func() error, error) {
	handlers := []slog.Handler{consoleHandler(os.Stderr, opts.Format, opts.Level)}
	closeFn := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return closeFn, fmt.Errorf("log file: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
		closeFn = f.Close
	}

	if opts.Journal {
		h, err := journalHandler(opts.Level)
		if err != nil {
			// Keep going on the console; the journal is optional.
			slog.New(handlers[0]).Warn("systemd journal unavailable", "err", err)
		} else {
			handlers = append(handlers, h)
		}
	}

	slog.SetDefault(slog.New(fanout(handlers)))
	return closeFn, nil
}

func consoleHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	useTint := format == FormatText || (format == FormatAuto && IsTTY(w))
	if useTint {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

func fanout(handlers []slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return slogmulti.Fanout(handlers...)
}
