// Package output provides formatters for displaying requests, responses and
// rendered templates.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Both formatters implement Formatter.
package output
