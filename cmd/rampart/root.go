package cmd

import (
	"fmt"
	"os"

	"github.com/rampart/rampart/core"
	"github.com/spf13/cobra"
)

// Rampart is the root command, executed by the main package.
var Rampart = &cobra.Command{
	Use:           "rampart",
	Short:         "Reconcile declared CDN and WAF resources against vendor APIs",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	Rampart.PersistentFlags().String("namespace", "default", "Namespace to use")
	Rampart.PersistentFlags().String("state-file", "", "Local state database file (default ~/.rampart/state.db)")
	Rampart.PersistentFlags().String("state-dynamodb-table", "", "Store state in a DynamoDB table instead of the local database")
	Rampart.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
}

// fatal prints the error and exits. Configuration errors are printed as
// diagnostics with source context.
func fatal(err error) {
	if derr, ok := err.(*core.DiagnosticsError); ok {
		derr.PrintDiagnostics(os.Stderr)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
