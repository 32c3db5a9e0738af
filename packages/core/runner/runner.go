package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/abdul-hamid-achik/hitref/packages/logging"
	"github.com/abdul-hamid-achik/hitref/packages/store"
)

// Store is the persistence the runner reads requests from and records
// responses to.
type Store interface {
	GetByID(ctx context.Context, id string) (*http.Request, error)
	SaveResponse(ctx context.Context, resp *http.Response) error
}

// BodyWriter stores response bodies and returns their handles.
type BodyWriter interface {
	Write(responseID string, body []byte) (string, error)
}

type Runner struct {
	client *http.Client
	engine *template.Engine
	store  Store
	bodies BodyWriter
	config *Config
	logger *slog.Logger
}

type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	MaxRedirects   int
	ValidateSSL    bool
	Proxy          string
	Headers        map[string]string
	Logger         *slog.Logger
}

func NewRunner(cfg *Config, engine *template.Engine, st Store, bodies BodyWriter) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirect: true, ValidateSSL: true}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	clientOpts := []http.ClientOption{}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	clientOpts = append(clientOpts, http.WithFollowRedirects(cfg.FollowRedirect))
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	clientOpts = append(clientOpts, http.WithValidateSSL(cfg.ValidateSSL))
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.Headers))
	}

	return &Runner{
		client: http.NewClient(clientOpts...),
		engine: engine,
		store:  st,
		bodies: bodies,
		config: cfg,
		logger: logger,
	}
}

// Engine returns the template engine requests are rendered with.
func (r *Runner) Engine() *template.Engine {
	return r.engine
}

// GetByID returns the stored request, or nil with a nil error when none has
// that id.
func (r *Runner) GetByID(ctx context.Context, id string) (*http.Request, error) {
	req, err := r.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Render returns a copy of req with every template expression in its URL,
// header values and body substituted. The request is marked as rendering on
// ctx so nested references to it are never sent again.
func (r *Runner) Render(ctx context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error) {
	if req == nil {
		return nil, fmt.Errorf("render: nil request")
	}
	if req.ID != "" && !template.IsRendering(ctx, req.ID) {
		ctx = template.WithRendering(ctx, req.ID)
	}

	out := req.Clone()
	out.URL = r.engine.Render(ctx, req.URL, purpose)
	for i := range out.Headers {
		out.Headers[i].Value = r.engine.Render(ctx, out.Headers[i].Value, purpose)
	}
	out.Body = r.engine.Render(ctx, req.Body, purpose)

	r.logger.Debug("rendered request",
		"requestId", req.ID,
		"purpose", purpose,
		"depth", template.RenderDepth(ctx),
	)
	return out, nil
}

// Send performs one exchange for a rendered request, stores its body and
// appends the response to the request's history. Failed exchanges are not
// recorded.
func (r *Runner) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("send: request has no id")
	}

	r.logger.Info("sending request", "requestId", req.ID, "method", req.Method, "url", req.URL)
	result, err := r.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending %s: %w", req.DisplayName(), err)
	}

	resp := &http.Response{
		ID:          store.NewResponseID(),
		RequestID:   req.ID,
		WorkspaceID: req.WorkspaceID,
		StatusCode:  result.StatusCode,
		Status:      result.Status,
		Headers:     result.Headers,
		BodySize:    int64(len(result.Body)),
		Duration:    result.Duration,
		CreatedAt:   time.Now(),
	}
	if len(result.Body) > 0 {
		handle, err := r.bodies.Write(resp.ID, result.Body)
		if err != nil {
			return nil, fmt.Errorf("storing body: %w", err)
		}
		resp.BodyPath = handle
	}
	if err := r.store.SaveResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("recording response: %w", err)
	}

	r.logger.Debug("response recorded",
		"requestId", req.ID,
		"responseId", resp.ID,
		"status", resp.StatusCode,
		"durationMs", resp.DurationMs(),
	)
	return resp, nil
}

// Run renders the stored request id with purpose send and sends it.
func (r *Runner) Run(ctx context.Context, id string) (*http.Request, *http.Response, error) {
	req, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rendered, err := r.Render(ctx, req, template.PurposeSend)
	if err != nil {
		return nil, nil, err
	}
	if unresolved := r.engine.Unresolved(rendered.URL); len(unresolved) > 0 {
		return rendered, nil, fmt.Errorf("unresolved expressions in url: %v", unresolved)
	}
	resp, err := r.Send(ctx, rendered)
	return rendered, resp, err
}
