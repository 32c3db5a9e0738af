package cmd

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/hitref/packages/extract"
	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter <id> <expression>",
	Short: "Query the latest response of a request",
	Long: `Apply a JSONPath or XPath expression to the body of the latest stored
response of a request and print every match. JSON is tried first, then XML.
Nothing is sent.

Examples:
  hitref filter rq_users '$.data[*].email'
  hitref filter rq_feed '/rss/channel/item/title'`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeRequestIDs,
	RunE:              filterCommand,
}

func filterCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	responses, err := a.store.FindByRequestID(context.Background(), args[0], 1)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		return withExitCode(ExitNotFound, fmt.Errorf("no stored response for %s", args[0]))
	}
	body, err := a.bodies.ReadText(responses[0].BodyPath)
	if err != nil {
		return err
	}
	out, err := extract.Filter(body, args[1])
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
