//go:build !linux

package logging

import (
	"errors"
	"log/slog"
)

func journalHandler(slog.Level) (slog.Handler, error) {
	return nil, errors.New("systemd journal not supported on this platform")
}
