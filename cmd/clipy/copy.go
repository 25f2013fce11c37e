package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipy/internal/message"
	"go.klb.dev/clipy/internal/rpc"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy [paths...]",
		Short: "Copy stdin or files to the clipboard (like pbcopy)",
		Long: `Reads stdin and puts it on the clipboard through the daemon.

  clipy copy < notes.txt            text
  clipy copy --image < shot.png     PNG image
  clipy copy --files a.txt b.txt    file list`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runCopy(v, args) },
	}

	f := cmd.Flags()
	f.Bool("image", false, "treat stdin as a PNG image")
	f.Bool("files", false, "copy the given paths as a file list")
	addConfigFlag(cmd)

	return cmd
}

func runCopy(v *viper.Viper, args []string) error {
	req, err := copyRequest(v.GetBool("image"), v.GetBool("files"), args, os.Stdin)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	return withClient(func(ctx context.Context, c *rpc.Client) error {
		return c.Copy(ctx, *req)
	})
}

// copyRequest builds the request for the chosen mode. It returns nil when
// there is nothing to copy.
func copyRequest(image, files bool, args []string, stdin io.Reader) (*message.CopyRequest, error) {
	switch {
	case image && files:
		return nil, errors.New("--image and --files are mutually exclusive")
	case files:
		if len(args) == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			args = strings.Split(string(data), "\n")
		}
		paths, err := absPaths(args)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, nil
		}
		req := message.NewFilesCopy(paths)
		return &req, nil
	case len(args) > 0:
		return nil, errors.New("paths given without --files")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var req message.CopyRequest
	if image {
		req = message.NewImageCopy(data)
	} else {
		req = message.NewTextCopy(string(data))
	}
	return &req, nil
}
