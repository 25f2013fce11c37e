package board

import (
	"context"
	"log/slog"

	"go.klb.dev/clipy/internal/item"
)

// previewLen is the maximum number of runes of text shown in debug logs.
const previewLen = 120

// LogItem logs a clipboard event at INFO (id, kind) and DEBUG (text preview
// up to 120 chars, or a size summary for images and file lists).
func LogItem(event string, it item.Item) {
	slog.Info(event, "id", it.ID, "kind", it.Kind())

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("clipboard item", "id", it.ID, "preview", it.Preview(previewLen))
}
