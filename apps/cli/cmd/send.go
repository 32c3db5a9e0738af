package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	sendFailFlag   bool
	sendNoBodyFlag bool
)

var sendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Render a stored request and send it",
	Long: `Render a stored request with purpose "send" and send it once. Template
functions in the request that reference other requests reuse their latest
response, or send them first, according to their behavior argument.

Examples:
  hitref send rq_login
  hitref send rq_profile -v
  hitref send rq_profile --fail -o json`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRequestIDs,
	RunE:              sendCommand,
}

func init() {
	sendCmd.Flags().BoolVar(&sendFailFlag, "fail", getEnvBool("HITREF_FAIL", false), "Exit with status 1 on 4xx/5xx responses (env: HITREF_FAIL)")
	sendCmd.Flags().BoolVar(&sendNoBodyFlag, "no-body", false, "Do not print the response body")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.store.GetByID(ctx, args[0]); err != nil {
		return notFound(err)
	}

	rendered, resp, err := a.runner.Run(ctx, args[0])
	if err != nil {
		return withExitCode(ExitNetworkError, err)
	}

	body := ""
	if !sendNoBodyFlag {
		if body, err = a.bodies.ReadText(resp.BodyPath); err != nil {
			return err
		}
	}
	a.formatter.FormatResponse(rendered, resp, body)

	if sendFailFlag && !resp.IsSuccess() && !resp.IsRedirect() {
		return withExitCode(ExitFailure, fmt.Errorf("%s returned %d", rendered.DisplayName(), resp.StatusCode))
	}
	return nil
}
