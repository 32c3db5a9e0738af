package resolver

import (
	"context"
	"log/slog"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/abdul-hamid-achik/hitref/packages/logging"
)

// RequestStore dereferences, renders and sends stored requests.
type RequestStore interface {
	// GetByID returns nil with a nil error when no request has that id.
	GetByID(ctx context.Context, id string) (*http.Request, error)
	// Render returns a copy of req with its template expressions substituted.
	Render(ctx context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error)
	// Send performs one exchange for a rendered request and records the response.
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ResponseStore is a read-only view of response history.
type ResponseStore interface {
	// FindByRequestID returns up to limit responses, most recent first.
	FindByRequestID(ctx context.Context, requestID string, limit int) ([]*http.Response, error)
}

// Resolver resolves request references to responses. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	requests  RequestStore
	responses ResponseStore
	logger    *slog.Logger
}

func New(requests RequestStore, responses ResponseStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{
		requests:  requests,
		responses: responses,
		logger:    logger,
	}
}

// plan is the result of the decision phase.
type plan struct {
	request  *http.Request
	cached   *http.Response
	decision Decision
}

// Resolve returns the response for requestID under mode and purpose, or false
// when none can be produced. Lookup, render and send failures all collapse
// to false; nothing is retried and at most one send happens per call.
func (r *Resolver) Resolve(ctx context.Context, requestID string, mode Behavior, purpose template.Purpose) (*http.Response, bool) {
	if requestID == "" {
		return nil, false
	}

	p, ok := r.decide(ctx, requestID, mode, purpose)
	if !ok {
		return nil, false
	}
	return r.execute(ctx, p, purpose)
}

// decide dereferences the request, reads the cache and applies the policy.
// It never renders or sends.
func (r *Resolver) decide(ctx context.Context, requestID string, mode Behavior, purpose template.Purpose) (*plan, bool) {
	req, err := r.requests.GetByID(ctx, requestID)
	if err != nil {
		r.logger.Warn("request lookup failed", "requestId", requestID, "error", err)
		return nil, false
	}
	if req == nil {
		r.logger.Debug("request not found", "requestId", requestID)
		return nil, false
	}

	responses, err := r.responses.FindByRequestID(ctx, req.ID, 1)
	if err != nil {
		r.logger.Warn("response lookup failed", "requestId", req.ID, "error", err)
		return nil, false
	}

	p := &plan{request: req}
	if len(responses) > 0 && responses[0] != nil {
		p.cached = responses[0]
	}
	p.decision = Decide(mode, purpose, p.cached != nil)

	// A request already being rendered up the chain must not be sent from
	// inside its own render.
	if p.decision == DecisionSend && template.IsRendering(ctx, req.ID) {
		if p.cached != nil {
			p.decision = DecisionReuse
		} else {
			p.decision = DecisionFail
		}
		r.logger.Debug("request is rendering; not sending", "requestId", req.ID, "decision", p.decision)
	}

	r.logger.Debug("resolved behavior",
		"requestId", req.ID,
		"behavior", mode,
		"effective", Effective(mode, purpose),
		"purpose", purpose,
		"cached", p.cached != nil,
		"decision", p.decision,
	)
	return p, true
}

// execute carries out a plan. Rendering happens only on the send branch.
func (r *Resolver) execute(ctx context.Context, p *plan, purpose template.Purpose) (*http.Response, bool) {
	switch p.decision {
	case DecisionReuse:
		return p.cached, true
	case DecisionSend:
		renderCtx := template.WithRendering(ctx, p.request.ID)
		rendered, err := r.requests.Render(renderCtx, p.request, purpose)
		if err != nil {
			r.logger.Warn("request render failed", "requestId", p.request.ID, "error", err)
			return nil, false
		}
		resp, err := r.requests.Send(ctx, rendered)
		if err != nil {
			r.logger.Warn("request send failed", "requestId", p.request.ID, "error", err)
			return nil, false
		}
		if resp == nil {
			return nil, false
		}
		return resp, true
	default:
		return nil, false
	}
}
