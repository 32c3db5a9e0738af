package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/abdul-hamid-achik/hitref/packages/store"
	"github.com/spf13/cobra"
)

var (
	requestNameFlag    string
	requestMethodFlag  string
	requestURLFlag     string
	requestHeaderFlags []string
	requestBodyFlag    string
	requestTimeoutFlag string
	requestIDFlag      string
)

var requestCmd = &cobra.Command{
	Use:     "request",
	Aliases: []string{"req"},
	Short:   "Manage stored requests",
}

var requestAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new request",
	Long: `Store a new request. URL, header values and body may contain template
expressions; they are rendered each time the request is sent.

Examples:
  hitref request add --name login --method POST --url '{{baseUrl}}/login' \
    --header 'Content-Type: application/json' --body '{"user":"demo"}'
  hitref request add --name me --url '{{baseUrl}}/me' \
    --header 'Authorization: Bearer {{ response(request="rq_login", path="$.token") }}'`,
	Args: cobra.NoArgs,
	RunE: requestAddCommand,
}

var requestListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored requests in the workspace",
	Args:    cobra.NoArgs,
	RunE:    requestListCommand,
}

var requestShowCmd = &cobra.Command{
	Use:               "show <id>",
	Short:             "Show a stored request",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRequestIDs,
	RunE:              requestShowCommand,
}

var requestDeleteCmd = &cobra.Command{
	Use:               "delete <id>",
	Aliases:           []string{"rm"},
	Short:             "Delete a stored request and its response history",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRequestIDs,
	RunE:              requestDeleteCommand,
}

var requestImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import requests from a JSON document",
	Long: `Import requests from a JSON document of the form

  {"workspace": "default", "requests": [{"name": "...", "method": "GET", "url": "..."}]}

Requests carrying an "id" replace the stored request with that id.`,
	Args: cobra.ExactArgs(1),
	RunE: requestImportCommand,
}

func init() {
	f := requestAddCmd.Flags()
	f.StringVar(&requestIDFlag, "id", "", "Request id (generated when empty)")
	f.StringVarP(&requestNameFlag, "name", "n", "", "Request name")
	f.StringVarP(&requestMethodFlag, "method", "X", "GET", "HTTP method")
	f.StringVarP(&requestURLFlag, "url", "u", "", "Request URL")
	f.StringArrayVarP(&requestHeaderFlags, "header", "H", nil, "Header as 'Name: value' (repeatable)")
	f.StringVarP(&requestBodyFlag, "body", "d", "", "Request body")
	f.StringVar(&requestTimeoutFlag, "timeout", "", "Per-request timeout (e.g., 5s)")
	_ = requestAddCmd.MarkFlagRequired("url")

	requestCmd.AddCommand(requestAddCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestShowCmd)
	requestCmd.AddCommand(requestDeleteCmd)
	requestCmd.AddCommand(requestImportCmd)
}

// notFound maps store.ErrNotFound to ExitNotFound.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return withExitCode(ExitNotFound, err)
	}
	return err
}

func requestAddCommand(cmd *cobra.Command, args []string) error {
	req := http.NewRequest(requestMethodFlag, requestURLFlag)
	req.ID = requestIDFlag
	req.Name = requestNameFlag
	req.SetBody(requestBodyFlag)
	for _, line := range requestHeaderFlags {
		h, ok := http.ParseHeader(line)
		if !ok {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid header %q (expected 'Name: value')", line))
		}
		req.Headers = append(req.Headers, h)
	}
	if requestTimeoutFlag != "" {
		d, err := time.ParseDuration(requestTimeoutFlag)
		if err != nil {
			return withExitCode(ExitUsageError, fmt.Errorf("invalid timeout: %w", err))
		}
		req.SetTimeout(d)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req.WorkspaceID = a.cfg.Workspace
	if err := a.store.SaveRequest(context.Background(), req); err != nil {
		return err
	}
	a.formatter.FormatRequest(req)
	return nil
}

func requestListCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	requests, err := a.store.ListRequests(context.Background(), a.cfg.Workspace)
	if err != nil {
		return err
	}
	a.formatter.FormatRequests(requests)
	return nil
}

func requestShowCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := a.store.GetByID(context.Background(), args[0])
	if err != nil {
		return notFound(err)
	}
	a.formatter.FormatRequest(req)
	return nil
}

func requestDeleteCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	paths, err := a.store.DeleteRequest(context.Background(), args[0])
	if err != nil {
		return notFound(err)
	}
	if err := a.bodies.Remove(paths...); err != nil {
		a.logger.Warn("failed to remove response bodies", "requestId", args[0], "error", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d stored bodies removed)\n", args[0], len(paths))
	return nil
}

func requestImportCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	requests, err := a.store.ImportFile(context.Background(), args[0])
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	a.formatter.FormatRequests(requests)
	return nil
}
