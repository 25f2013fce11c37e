package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/clipy/internal/rpc"
)

func newPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin an entry",
		Long: `Toggles the pin flag of an entry. Pinned entries are listed first, are
never evicted and are saved to disk.

<id> is the full ID or any unique prefix of it, as shown by "clipy list".`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *rpc.Client) error {
				it, err := c.TogglePin(ctx, args[0])
				if err != nil {
					return err
				}
				state := "unpinned"
				if it.Pinned {
					state = "pinned"
				}
				fmt.Printf("%s %s\n", state, shortID(it.ID))
				return nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an entry from history and the pinned set",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *rpc.Client) error {
				return c.Delete(ctx, args[0])
			})
		},
	}
}
