package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag    string
	databaseFlag  string
	bodyDirFlag   string
	workspaceFlag string
	envFileFlag   string
	outputFlag    string
	noColorFlag   bool
	verboseFlag   bool
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hitref",
	Short: "Stored HTTP requests that reference each other's responses.",
	Long: `hitref stores HTTP requests and their response history, and renders
templates whose functions pull values out of other requests' responses.

A template such as

  Authorization: Bearer {{ response(request="rq_login", path="$.token") }}

reuses the latest login response, or sends the login request first when
there is none yet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", getEnvString("HITREF_CONFIG", ""), "Path to config file (env: HITREF_CONFIG)")
	pf.StringVar(&databaseFlag, "db", getEnvString("HITREF_DB", ""), "Path to the sqlite database (env: HITREF_DB)")
	pf.StringVar(&bodyDirFlag, "body-dir", getEnvString("HITREF_BODY_DIR", ""), "Directory for stored response bodies (env: HITREF_BODY_DIR)")
	pf.StringVarP(&workspaceFlag, "workspace", "w", getEnvString("HITREF_WORKSPACE", ""), "Workspace to use (env: HITREF_WORKSPACE)")
	pf.StringVar(&envFileFlag, "env-file", getEnvString("HITREF_ENV_FILE", ""), "Path to .env file with template variables (env: HITREF_ENV_FILE)")
	pf.StringVarP(&outputFlag, "output", "o", getEnvString("HITREF_OUTPUT", "console"), "Output format: console, json (env: HITREF_OUTPUT)")
	pf.BoolVar(&noColorFlag, "no-color", getEnvBool("HITREF_NO_COLOR", false), "Disable colored output (env: HITREF_NO_COLOR)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HITREF_VERBOSE", false), "Verbose output")
	pf.StringVar(&logLevelFlag, "log-level", getEnvString("HITREF_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: HITREF_LOG_LEVEL)")
	pf.StringVar(&logFormatFlag, "log-format", getEnvString("HITREF_LOG_FORMAT", ""), "Log format: text, json (env: HITREF_LOG_FORMAT)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
