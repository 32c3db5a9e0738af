package templatefn

import (
	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/resolver"
)

func requestArg() template.Arg {
	return template.Arg{Name: argRequest, Label: "Request", Placeholder: "rq_..."}
}

func behaviorArg(def resolver.Behavior) template.Arg {
	options := make([]string, len(resolver.Behaviors))
	for i, b := range resolver.Behaviors {
		options[i] = b.String()
	}
	return template.Arg{
		Name:     argBehavior,
		Label:    "Trigger Behavior",
		Default:  def.String(),
		Options:  options,
		Optional: true,
	}
}

// Definitions returns the function definitions backed by h. The request
// functions are only included when h was built WithRequests.
func (h *Handlers) Definitions() []*template.Definition {
	defs := []*template.Definition{
		{
			Name:        "response.header",
			Description: "Read a header value from the latest response of a request",
			Args: []template.Arg{
				requestArg(),
				{Name: argHeader, Label: "Header", Placeholder: "Content-Type"},
				behaviorArg(h.behavior),
			},
			Fn: h.ResponseHeader,
		},
		{
			Name:        "response.body.path",
			Description: "Extract a JSONPath or XPath value from the latest response of a request",
			Aliases:     []string{"response"},
			Args: []template.Arg{
				requestArg(),
				{Name: argPath, Label: "JSONPath or XPath", Placeholder: "$.data.id"},
				behaviorArg(h.behavior),
			},
			Fn: h.ResponseBodyPath,
		},
		{
			Name:        "response.body.raw",
			Description: "Read the full body of the latest response of a request",
			Args: []template.Arg{
				requestArg(),
				behaviorArg(h.behavior),
			},
			Fn: h.ResponseBodyRaw,
		},
	}
	if h.requests == nil || h.renderer == nil {
		return defs
	}
	return append(defs,
		&template.Definition{
			Name:        "request.body",
			Description: "Render the body of another request",
			Args:        []template.Arg{requestArg()},
			Fn:          h.RequestBody,
		},
		&template.Definition{
			Name:        "request.header",
			Description: "Render a header value of another request",
			Args: []template.Arg{
				requestArg(),
				{Name: argHeader, Label: "Header", Placeholder: "Authorization"},
			},
			Fn: h.RequestHeader,
		},
	)
}

// Register adds the functions backed by h to e.
func Register(e *template.Engine, h *Handlers) {
	for _, def := range h.Definitions() {
		e.Register(def)
	}
}
