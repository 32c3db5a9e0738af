package output

import (
	"io"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
)

// Formatter writes command results.
type Formatter interface {
	FormatRequests(requests []*http.Request)
	FormatRequest(req *http.Request)
	FormatResponse(req *http.Request, resp *http.Response, body string)
	FormatHistory(requestID string, responses []*http.Response)
	FormatFunctions(defs []*template.Definition)
	FormatRendered(text string, unresolved []string)
	FormatError(err error)
}

// New returns the formatter for name, "console" or "json".
func New(name string, w io.Writer, noColor, verbose bool) Formatter {
	if name == "json" {
		return NewJSONFormatter(WithJSONWriter(w))
	}
	return NewConsoleFormatter(WithWriter(w), WithNoColor(noColor), WithVerbose(verbose))
}
