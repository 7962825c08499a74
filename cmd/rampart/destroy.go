package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var destroyCommand = &cobra.Command{
	Use:   "destroy [dir]",
	Short: "Remove all applied resources",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		ns, err := cmd.Flags().GetString("namespace")
		if err != nil {
			fatal(err)
		}

		app, done, err := newApp(cmd)
		if err != nil {
			fatal(err)
		}

		ctx := interruptContext(context.Background())

		err = app.Destroy(ctx, dir, ns)
		done()
		if err != nil {
			fatal(err)
		}
	},
}

func init() {
	Rampart.AddCommand(destroyCommand)
}
