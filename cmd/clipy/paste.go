package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipy/internal/board"
	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/rpc"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste [id]",
		Short: "Print an entry to stdout (like pbpaste)",
		Long: `Writes an entry to stdout: the newest one of --kind, or the one named
by [id]. Images are written as raw PNG, file lists one path per line.

  clipy paste --kind image > screenshot.png`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runPaste(v, args) },
	}

	cmd.Flags().String("kind", "all", "newest entry of this kind: all|text|image|files")
	addConfigFlag(cmd)

	return cmd
}

func runPaste(v *viper.Viper, args []string) error {
	return withClient(func(ctx context.Context, c *rpc.Client) error {
		items, err := c.List(ctx, v.GetString("kind"))
		if err != nil {
			return err
		}
		it, err := pick(items, args)
		if err != nil {
			return err
		}
		return writeContent(os.Stdout, it.Content)
	})
}

// pick chooses the entry named by args, or the newest one. Pinned entries
// lead the view, so newest means latest capture time.
func pick(items []item.Item, args []string) (item.Item, error) {
	if len(args) == 1 {
		var match []item.Item
		for _, it := range items {
			if strings.HasPrefix(it.ID, args[0]) {
				match = append(match, it)
			}
		}
		switch len(match) {
		case 0:
			return item.Item{}, fmt.Errorf("%s: %w", args[0], board.ErrNotFound)
		case 1:
			return match[0], nil
		default:
			return item.Item{}, fmt.Errorf("%s: %w", args[0], board.ErrAmbiguous)
		}
	}

	if len(items) == 0 {
		return item.Item{}, fmt.Errorf("nothing to paste: %w", board.ErrNotFound)
	}
	newest := items[0]
	for _, it := range items[1:] {
		if it.CapturedAt.After(newest.CapturedAt) {
			newest = it
		}
	}
	return newest, nil
}

func writeContent(w io.Writer, c item.Content) error {
	switch v := c.(type) {
	case item.Text:
		_, err := io.WriteString(w, string(v))
		return err
	case item.Image:
		data, err := base64.StdEncoding.DecodeString(string(v))
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		_, err = w.Write(data)
		return err
	case item.Files:
		for _, p := range v {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown content %T", c)
	}
}
