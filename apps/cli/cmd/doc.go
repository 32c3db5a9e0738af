// Package cmd implements the hitref CLI commands using Cobra.
//
// Available commands:
//   - init: Write a default configuration file
//   - request: Add, list, show, delete and import stored requests
//   - send: Render a stored request and send it
//   - render: Render a template, as a preview or for sending
//   - history: List the stored responses of a request
//   - filter: Query the latest response of a request with JSONPath or XPath
//   - functions: List the available template functions
//   - version: Show hitref version information
//
// Flags can also be set through HITREF_* environment variables.
package cmd
