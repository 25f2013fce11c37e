package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipy/internal/ipc"
	"go.klb.dev/clipy/internal/rpc"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Stream history changes as they happen",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	cmd.Flags().String("kind", "all", "only show entries of this kind: all|text|image|files")
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	if !ipc.IsRunning() {
		return errNoDaemon
	}
	conn, err := rpc.DialIPC()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stream, err := rpc.NewClient(conn).Watch(ctx, v.GetString("kind"))
	if err != nil {
		return describe(err)
	}
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
			return nil
		}
		if err != nil {
			return describe(err)
		}
		fmt.Printf("%-8s %s %-5s %s\n", ev.Type, shortID(ev.Item.ID), ev.Item.Kind(), ev.Item.Preview(previewWidth))
	}
}
