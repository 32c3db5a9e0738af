package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitref/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hitref project",
	Long: `Initialize a new hitref project in the current directory.

This creates:
  - .hitref.yaml    - Configuration file
  - requests.json   - Example requests, ready for 'hitref request import'

Examples:
  hitref init
  hitref init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleRequests = `{
  "workspace": "default",
  "requests": [
    {
      "id": "rq_login",
      "name": "login",
      "method": "POST",
      "url": "{{baseUrl}}/login",
      "headers": [{"name": "Content-Type", "value": "application/json"}],
      "body": "{\"username\": \"demo\", \"password\": \"{{$DEMO_PASSWORD}}\"}"
    },
    {
      "id": "rq_profile",
      "name": "profile",
      "method": "GET",
      "url": "{{baseUrl}}/me",
      "headers": [
        {"name": "Authorization", "value": "Bearer {{ response(request=\"rq_login\", path=\"$.token\") }}"},
        {"name": "X-Request-Id", "value": "{{uuid()}}"}
      ]
    }
  ]
}
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".hitref.yaml")
	exampleFile := filepath.Join(cwd, "requests.json")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{"User-Agent": "hitref/" + version}
	cfg.Variables = map[string]string{"baseUrl": "http://localhost:3000"}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleRequests), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitref project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitref request import requests.json' and then 'hitref send rq_profile'.\n")

	return nil
}
