// clipy: clipboard history daemon with pinning.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipy",
		Short: "Clipboard history with pinning",
		Long: `clipy watches the system clipboard and keeps the last 50 distinct
entries (text, images and file lists). Entries can be pinned; pinned entries
survive eviction and restarts.

Run "clipy daemon" once per session. The other sub-commands talk to the
daemon over a local socket.

Config file search order (first found wins):
  /etc/clipy/clipy.toml
  $HOME/.config/clipy/clipy.toml
  path supplied via --config

All flags can be set via CLIPY_<FLAG> env vars or config-file keys.
See "clipy daemon --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newListCmd(),
		newPinCmd(),
		newDeleteCmd(),
		newRestoreCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newWatchCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipy %s\n", Version)
		},
	}
}
