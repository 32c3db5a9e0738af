package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/fatih/color"
)

// truncate shortens s to maxLen runes for single-line display
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return s
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(code int) func(a ...any) string {
	switch {
	case code >= 500:
		return color.New(color.FgRed).SprintFunc()
	case code >= 400:
		return color.New(color.FgYellow).SprintFunc()
	case code >= 300:
		return color.New(color.FgCyan).SprintFunc()
	default:
		return color.New(color.FgGreen).SprintFunc()
	}
}

func (f *ConsoleFormatter) FormatRequests(requests []*http.Request) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if len(requests) == 0 {
		fmt.Fprintf(f.writer, "No requests stored\n")
		return
	}
	for _, r := range requests {
		fmt.Fprintf(f.writer, "%s  %-7s %s %s\n", faint(r.ID), r.Method, bold(r.DisplayName()), faint(truncate(r.URL, 60)))
	}
	fmt.Fprintf(f.writer, "\n%d requests\n", len(requests))
}

func (f *ConsoleFormatter) FormatRequest(req *http.Request) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(req.DisplayName()), cyan("("+req.ID+")"))
	fmt.Fprintf(f.writer, "%s %s\n", req.Method, req.URL)
	for _, h := range req.Headers {
		fmt.Fprintf(f.writer, "%s: %s\n", h.Name, h.Value)
	}
	if req.Body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", req.Body)
	}
}

func (f *ConsoleFormatter) FormatResponse(req *http.Request, resp *http.Response, body string) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	status := statusColor(resp.StatusCode)

	fmt.Fprintf(f.writer, "%s %s %s\n", bold(req.Method+" "+req.URL), status(resp.StatusCode), cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
	if f.verbose {
		for _, h := range resp.Headers {
			fmt.Fprintf(f.writer, "  %s: %s\n", h.Name, h.Value)
		}
	}
	if body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", body)
	}
}

func (f *ConsoleFormatter) FormatHistory(requestID string, responses []*http.Response) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s\n", bold("History: "+requestID))
	if len(responses) == 0 {
		fmt.Fprintf(f.writer, "  no responses\n")
		return
	}
	for _, r := range responses {
		status := statusColor(r.StatusCode)
		fmt.Fprintf(f.writer, "  %s  %s  %6dms  %7dB  %s\n",
			faint(r.CreatedAt.Format("2006-01-02 15:04:05")),
			status(r.StatusCode), r.DurationMs(), r.BodySize, faint(r.ID))
	}
}

func (f *ConsoleFormatter) FormatFunctions(defs []*template.Definition) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for _, d := range defs {
		fmt.Fprintf(f.writer, "%s\n", bold(d.Signature()))
		if d.Description != "" {
			fmt.Fprintf(f.writer, "  %s\n", d.Description)
		}
		if len(d.Aliases) > 0 {
			fmt.Fprintf(f.writer, "  %s %s\n", faint("aliases:"), strings.Join(d.Aliases, ", "))
		}
		if !f.verbose {
			continue
		}
		for _, a := range d.Args {
			line := "  - " + a.Name
			if a.Label != "" {
				line += " (" + a.Label + ")"
			}
			if a.Default != "" {
				line += " default=" + a.Default
			}
			if len(a.Options) > 0 {
				line += " options=" + strings.Join(a.Options, "|")
			}
			fmt.Fprintf(f.writer, "%s\n", faint(line))
		}
	}
}

// FormatRendered writes a rendered template and lists expressions that were
// left unresolved.
func (f *ConsoleFormatter) FormatRendered(text string, unresolved []string) {
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "%s\n", text)
	for _, u := range unresolved {
		fmt.Fprintf(f.writer, "%s {{%s}}\n", yellow("unresolved:"), u)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitref"), version)
}
