package cmd

import (
	"github.com/spf13/cobra"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List available template functions",
	Long: `List the functions usable in {{ ... }} template expressions. With -v the
arguments of each function are shown as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.formatter.FormatFunctions(a.engine.Functions())
		return nil
	},
}
