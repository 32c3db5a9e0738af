package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
)

// JSONResponse is a response together with its body text
type JSONResponse struct {
	*http.Response
	DurationMs int64  `json:"durationMs"`
	Body       string `json:"body,omitempty"`
}

// JSONHistory is the response history of one request
type JSONHistory struct {
	RequestID string           `json:"requestId"`
	Responses []*http.Response `json:"responses"`
}

// JSONFunction describes a template function
type JSONFunction struct {
	Name        string         `json:"name"`
	Signature   string         `json:"signature"`
	Description string         `json:"description,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Args        []template.Arg `json:"args,omitempty"`
}

// JSONRendered is a rendered template
type JSONRendered struct {
	Text       string   `json:"text"`
	Unresolved []string `json:"unresolved"`
}

// JSONError is written for failed commands
type JSONError struct {
	Error string `json:"error"`
}

// JSONFormatter writes each result as an indented JSON document
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) write(v any) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (f *JSONFormatter) FormatRequests(requests []*http.Request) {
	if requests == nil {
		requests = []*http.Request{}
	}
	f.write(requests)
}

func (f *JSONFormatter) FormatRequest(req *http.Request) {
	f.write(req)
}

func (f *JSONFormatter) FormatResponse(_ *http.Request, resp *http.Response, body string) {
	f.write(JSONResponse{Response: resp, DurationMs: resp.DurationMs(), Body: body})
}

func (f *JSONFormatter) FormatHistory(requestID string, responses []*http.Response) {
	if responses == nil {
		responses = []*http.Response{}
	}
	f.write(JSONHistory{RequestID: requestID, Responses: responses})
}

func (f *JSONFormatter) FormatFunctions(defs []*template.Definition) {
	out := make([]JSONFunction, 0, len(defs))
	for _, d := range defs {
		out = append(out, JSONFunction{
			Name:        d.Name,
			Signature:   d.Signature(),
			Description: d.Description,
			Aliases:     d.Aliases,
			Args:        d.Args,
		})
	}
	f.write(out)
}

func (f *JSONFormatter) FormatRendered(text string, unresolved []string) {
	if unresolved == nil {
		unresolved = []string{}
	}
	f.write(JSONRendered{Text: text, Unresolved: unresolved})
}

func (f *JSONFormatter) FormatError(err error) {
	f.write(JSONError{Error: err.Error()})
}
