package templatefn

import (
	"context"
	"log/slog"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/extract"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/abdul-hamid-achik/hitref/packages/logging"
	"github.com/abdul-hamid-achik/hitref/packages/resolver"
)

// ResponseResolver resolves a request reference to a response.
type ResponseResolver interface {
	Resolve(ctx context.Context, requestID string, mode resolver.Behavior, purpose template.Purpose) (*http.Response, bool)
}

// BodyReader reads stored response bodies.
type BodyReader interface {
	ReadText(handle string) (string, error)
}

// RequestLookup finds stored requests. It returns nil with a nil error when
// no request has the id.
type RequestLookup interface {
	GetByID(ctx context.Context, id string) (*http.Request, error)
}

// Renderer renders template text.
type Renderer interface {
	Render(ctx context.Context, input string, purpose template.Purpose) string
}

const (
	argRequest  = "request"
	argHeader   = "header"
	argPath     = "path"
	argBehavior = "behavior"
)

// Handlers implements the request and response template functions. It keeps
// no state between calls.
type Handlers struct {
	resolver ResponseResolver
	bodies   BodyReader
	requests RequestLookup
	renderer Renderer
	behavior resolver.Behavior
	logger   *slog.Logger
}

// Option configures Handlers.
type Option func(*Handlers)

// WithRequests enables request.body and request.header.
func WithRequests(requests RequestLookup, renderer Renderer) Option {
	return func(h *Handlers) {
		h.requests = requests
		h.renderer = renderer
	}
}

// WithDefaultBehavior sets the behavior used when a call does not name one.
func WithDefaultBehavior(b resolver.Behavior) Option {
	return func(h *Handlers) {
		h.behavior = resolver.ParseBehavior(b.String())
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func New(res ResponseResolver, bodies BodyReader, opts ...Option) *Handlers {
	h := &Handlers{
		resolver: res,
		bodies:   bodies,
		behavior: resolver.DefaultBehavior,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ResponseHeader returns a header of the resolved response.
func (h *Handlers) ResponseHeader(ctx context.Context, call *template.Call) (string, bool) {
	id, name := call.Args.Get(argRequest), call.Args.Get(argHeader)
	if id == "" || name == "" {
		return "", false
	}
	resp, ok := h.resolve(ctx, call)
	if !ok {
		return "", false
	}
	return http.FindHeader(resp.Headers, name)
}

// ResponseBodyPath extracts a JSONPath or XPath value from the resolved
// response body.
func (h *Handlers) ResponseBodyPath(ctx context.Context, call *template.Call) (string, bool) {
	id, path := call.Args.Get(argRequest), call.Args.Get(argPath)
	if id == "" || path == "" {
		return "", false
	}
	body, ok := h.responseBody(ctx, call)
	if !ok {
		return "", false
	}
	return extract.Extract(body, path)
}

// ResponseBodyRaw returns the resolved response body as text.
func (h *Handlers) ResponseBodyRaw(ctx context.Context, call *template.Call) (string, bool) {
	if call.Args.Get(argRequest) == "" {
		return "", false
	}
	return h.responseBody(ctx, call)
}

// RequestBody returns the rendered body of a stored request. It never sends.
func (h *Handlers) RequestBody(ctx context.Context, call *template.Call) (string, bool) {
	req, ok := h.lookupRequest(ctx, call.Args.Get(argRequest))
	if !ok {
		return "", false
	}
	return h.renderer.Render(template.WithRendering(ctx, req.ID), req.Body, call.Purpose), true
}

// RequestHeader returns a rendered header value of a stored request. It
// never sends.
func (h *Handlers) RequestHeader(ctx context.Context, call *template.Call) (string, bool) {
	name := call.Args.Get(argHeader)
	if name == "" {
		return "", false
	}
	req, ok := h.lookupRequest(ctx, call.Args.Get(argRequest))
	if !ok {
		return "", false
	}
	value, ok := req.Header(name)
	if !ok {
		return "", false
	}
	return h.renderer.Render(template.WithRendering(ctx, req.ID), value, call.Purpose), true
}

func (h *Handlers) resolve(ctx context.Context, call *template.Call) (*http.Response, bool) {
	mode := h.behavior
	if b := call.Args.Get(argBehavior); b != "" {
		mode = resolver.ParseBehavior(b)
	}
	return h.resolver.Resolve(ctx, call.Args.Get(argRequest), mode, call.Purpose)
}

func (h *Handlers) responseBody(ctx context.Context, call *template.Call) (string, bool) {
	resp, ok := h.resolve(ctx, call)
	if !ok {
		return "", false
	}
	body, err := h.bodies.ReadText(resp.BodyPath)
	if err != nil {
		h.logger.Warn("response body unreadable", "responseId", resp.ID, "error", err)
		return "", false
	}
	return body, true
}

func (h *Handlers) lookupRequest(ctx context.Context, id string) (*http.Request, bool) {
	if id == "" || h.requests == nil || h.renderer == nil {
		return nil, false
	}
	req, err := h.requests.GetByID(ctx, id)
	if err != nil {
		h.logger.Warn("request lookup failed", "requestId", id, "error", err)
		return nil, false
	}
	return req, req != nil
}
