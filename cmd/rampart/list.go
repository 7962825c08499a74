package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCommand = &cobra.Command{
	Use:     "list [dir]",
	Aliases: []string{"ls"},
	Short:   "List applied resources",
	Args:    cobra.MaximumNArgs(1),
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

		list, err := app.List(ctx, dir, ns)
		done()
		if err != nil {
			fatal(err)
		}

		for _, res := range list {
			fmt.Printf("%s %s %s\n", res.Def.Type(), res.Name, res.ID)
		}
	},
}

func init() {
	Rampart.AddCommand(listCommand)
}
