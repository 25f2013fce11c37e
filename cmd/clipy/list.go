package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/rpc"
)

// previewWidth is the preview column width in listings.
const previewWidth = 60

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show pinned entries, then history",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	f := cmd.Flags()
	f.String("kind", "all", "only show entries of this kind: all|text|image|files")
	f.Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runList(v *viper.Viper) error {
	return withClient(func(ctx context.Context, c *rpc.Client) error {
		items, err := c.List(ctx, v.GetString("kind"))
		if err != nil {
			return err
		}
		if v.GetBool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if items == nil {
				items = []item.Item{}
			}
			return enc.Encode(items)
		}
		printItems(items)
		return nil
	})
}

func printItems(items []item.Item) {
	if len(items) == 0 {
		fmt.Println("History is empty.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "\tID\tKIND\tCAPTURED\tCONTENT\n")
	_, _ = fmt.Fprintf(tw, "\t--\t----\t--------\t-------\n")
	for _, it := range items {
		marker := ""
		if it.Pinned {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			marker, shortID(it.ID), it.Kind(), fmtAge(it.CapturedAt), it.Preview(previewWidth),
		)
	}
	_ = tw.Flush()
}
