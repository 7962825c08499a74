package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with
// -ldflags "-X github.com/rampart/rampart/cmd/rampart.<name>=<value>".
var (
	// Version is the release version.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rampart %s (%s) %s\n", Version, Commit, runtime.Version())
	},
}

func init() {
	Rampart.AddCommand(versionCommand)
}
