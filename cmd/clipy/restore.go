package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/clipy/internal/rpc"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Put an entry back on the clipboard",
		Long: `Writes the entry to the clipboard. The daemon records the write like
any other copy, so the entry becomes the newest history item.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *rpc.Client) error {
				it, err := c.Restore(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("restored %s (%s)\n", shortID(it.ID), it.Kind())
				return nil
			})
		},
	}
}
