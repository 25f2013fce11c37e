package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipy/internal/ipc"
	"go.klb.dev/clipy/internal/message"
	"go.klb.dev/clipy/internal/rpc"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show daemon state",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	return withClient(func(ctx context.Context, c *rpc.Client) error {
		resp, err := c.Status(ctx)
		if err != nil {
			return err
		}
		if v.GetBool("json") {
			enc, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Println(string(enc))
			return nil
		}
		printStatus(resp)
		return nil
	})
}

func printStatus(resp *message.StatusResponse) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Version:\t%s\n", resp.Version)
	fmt.Fprintf(w, "Socket:\t%s\n", ipc.SocketPath())
	fmt.Fprintf(w, "Backend:\t%s (%d channels)\n", resp.Backend, resp.Channels)
	fmt.Fprintf(w, "History:\t%d / %d\n", resp.HistoryLen, resp.HistoryCap)
	fmt.Fprintf(w, "Pinned:\t%d\n", resp.Pinned)
	fmt.Fprintf(w, "Pin file:\t%s\n", resp.PinFile)
	fmt.Fprintf(w, "Debounce:\t%s (%s)\n", resp.Debounce, resp.DebounceMode)
	fmt.Fprintf(w, "Watchers:\t%d\n", resp.Watchers)
	if !resp.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:\t%s (%s)\n", resp.StartedAt.UTC().Format(time.RFC3339), fmtAge(resp.StartedAt))
	}
	_ = w.Flush()
}
