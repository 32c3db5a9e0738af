package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:               "history <id>",
	Short:             "List stored responses of a request, most recent first",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRequestIDs,
	RunE:              historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", getEnvInt("HITREF_HISTORY_LIMIT", 20), "Maximum number of responses, 0 for all (env: HITREF_HISTORY_LIMIT)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if _, err := a.store.GetByID(ctx, args[0]); err != nil {
		return notFound(err)
	}
	responses, err := a.store.FindByRequestID(ctx, args[0], historyLimitFlag)
	if err != nil {
		return err
	}
	a.formatter.FormatHistory(args[0], responses)
	return nil
}
