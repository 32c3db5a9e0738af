package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a RequestStore and ResponseStore that records every call.
type fakeStore struct {
	requests  map[string]*http.Request
	responses map[string][]*http.Response

	calls     []string
	renderFn  func(ctx context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error)
	getErr    error
	findErr   error
	sendErr   error
	sendCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:  make(map[string]*http.Request),
		responses: make(map[string][]*http.Response),
	}
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*http.Request, error) {
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.requests[id], nil
}

func (f *fakeStore) FindByRequestID(_ context.Context, id string, limit int) ([]*http.Response, error) {
	f.calls = append(f.calls, "find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	rs := f.responses[id]
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs, nil
}

func (f *fakeStore) Render(ctx context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error) {
	f.calls = append(f.calls, "render")
	if f.renderFn != nil {
		return f.renderFn(ctx, req, purpose)
	}
	return req.Clone(), nil
}

func (f *fakeStore) Send(_ context.Context, req *http.Request) (*http.Response, error) {
	f.calls = append(f.calls, "send")
	f.sendCount++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	resp := &http.Response{ID: "rs_new", RequestID: req.ID, StatusCode: 200}
	f.responses[req.ID] = append([]*http.Response{resp}, f.responses[req.ID]...)
	return resp, nil
}

func seeded(withCache bool) *fakeStore {
	f := newFakeStore()
	f.requests["rq_1"] = &http.Request{ID: "rq_1", Method: "GET", URL: "http://example.com"}
	if withCache {
		f.responses["rq_1"] = []*http.Response{{ID: "rs_old", RequestID: "rq_1", StatusCode: 200}}
	}
	return f
}

func TestResolve_Decisions(t *testing.T) {
	tests := []struct {
		name      string
		cached    bool
		mode      Behavior
		purpose   template.Purpose
		wantID    string
		wantSends int
	}{
		{"smart preview cached reuses", true, BehaviorSmart, template.PurposePreview, "rs_old", 0},
		{"smart send cached reuses", true, BehaviorSmart, template.PurposeSend, "rs_old", 0},
		{"smart preview empty sends", false, BehaviorSmart, template.PurposePreview, "rs_new", 1},
		{"always preview cached reuses", true, BehaviorAlways, template.PurposePreview, "rs_old", 0},
		{"always preview empty sends", false, BehaviorAlways, template.PurposePreview, "rs_new", 1},
		{"always send cached sends", true, BehaviorAlways, template.PurposeSend, "rs_new", 1},
		{"never cached reuses", true, BehaviorNever, template.PurposeSend, "rs_old", 0},
		{"unknown behaves as smart", false, Behavior("sometimes"), template.PurposeSend, "rs_new", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seeded(tt.cached)
			r := New(store, store, nil)

			resp, ok := r.Resolve(context.Background(), "rq_1", tt.mode, tt.purpose)

			require.True(t, ok)
			assert.Equal(t, tt.wantID, resp.ID)
			assert.Equal(t, tt.wantSends, store.sendCount)
		})
	}
}

func TestResolve_CallOrder(t *testing.T) {
	store := seeded(true)
	r := New(store, store, nil)

	_, ok := r.Resolve(context.Background(), "rq_1", BehaviorAlways, template.PurposeSend)
	require.True(t, ok)
	assert.Equal(t, []string{"get", "find", "render", "send"}, store.calls)

	store.calls = nil
	_, ok = r.Resolve(context.Background(), "rq_1", BehaviorSmart, template.PurposeSend)
	require.True(t, ok)
	assert.Equal(t, []string{"get", "find"}, store.calls, "reuse must not render")
}

func TestResolve_NeverWithoutCache(t *testing.T) {
	store := seeded(false)
	r := New(store, store, nil)

	resp, ok := r.Resolve(context.Background(), "rq_1", BehaviorNever, template.PurposeSend)

	assert.False(t, ok)
	assert.Nil(t, resp)
	assert.Equal(t, []string{"get", "find"}, store.calls)
}

func TestResolve_EmptyID(t *testing.T) {
	store := seeded(true)
	r := New(store, store, nil)

	_, ok := r.Resolve(context.Background(), "", BehaviorAlways, template.PurposeSend)

	assert.False(t, ok)
	assert.Empty(t, store.calls)
}

func TestResolve_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setup     func(*fakeStore)
		id        string
		wantCalls []string
	}{
		{"unknown request", func(*fakeStore) {}, "rq_missing", []string{"get"}},
		{"lookup error", func(f *fakeStore) { f.getErr = boom }, "rq_1", []string{"get"}},
		{"history error", func(f *fakeStore) { f.findErr = boom }, "rq_1", []string{"get", "find"}},
		{"render error", func(f *fakeStore) {
			f.renderFn = func(context.Context, *http.Request, template.Purpose) (*http.Request, error) {
				return nil, boom
			}
		}, "rq_1", []string{"get", "find", "render"}},
		{"send error", func(f *fakeStore) { f.sendErr = boom }, "rq_1", []string{"get", "find", "render", "send"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seeded(false)
			tt.setup(store)
			r := New(store, store, nil)

			resp, ok := r.Resolve(context.Background(), tt.id, BehaviorSmart, template.PurposeSend)

			assert.False(t, ok)
			assert.Nil(t, resp)
			assert.Equal(t, tt.wantCalls, store.calls)
			assert.LessOrEqual(t, store.sendCount, 1)
		})
	}
}

func TestResolve_RenderUsesCallerPurpose(t *testing.T) {
	store := seeded(false)
	var got template.Purpose
	store.renderFn = func(_ context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error) {
		got = purpose
		return req.Clone(), nil
	}
	r := New(store, store, nil)

	_, ok := r.Resolve(context.Background(), "rq_1", BehaviorSmart, template.PurposePreview)

	require.True(t, ok)
	assert.Equal(t, template.PurposePreview, got)
}

func TestResolve_SelfReferenceTerminates(t *testing.T) {
	tests := []struct {
		name     string
		cached   bool
		mode     Behavior
		wantBody string
	}{
		// No prior response: the nested lookup yields nothing and the body
		// renders without it.
		{"no cache", false, BehaviorSmart, "prev="},
		// A prior response exists: the nested lookup uses it rather than the
		// response that is about to be produced.
		{"always with cache", true, BehaviorAlways, "prev=rs_old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seeded(tt.cached)
			r := New(store, store, nil)

			var sentBody string
			nested := 0
			store.renderFn = func(ctx context.Context, req *http.Request, purpose template.Purpose) (*http.Request, error) {
				nested++
				require.Less(t, nested, 5, "render recursed")
				// The body references the latest response of the request itself.
				prev := ""
				if resp, ok := r.Resolve(ctx, req.ID, tt.mode, purpose); ok {
					prev = resp.ID
				}
				out := req.Clone()
				out.Body = "prev=" + prev
				sentBody = out.Body
				return out, nil
			}

			resp, ok := r.Resolve(context.Background(), "rq_1", tt.mode, template.PurposeSend)

			require.True(t, ok)
			assert.Equal(t, "rs_new", resp.ID)
			assert.Equal(t, 1, store.sendCount)
			assert.Equal(t, 1, nested)
			assert.Equal(t, tt.wantBody, sentBody)
		})
	}
}

func TestResolve_OtherRequestStillSendsWhileRendering(t *testing.T) {
	store := seeded(false)
	store.requests["rq_2"] = &http.Request{ID: "rq_2", Method: "GET", URL: "http://example.com/token"}
	r := New(store, store, nil)

	ctx := template.WithRendering(context.Background(), "rq_1")
	resp, ok := r.Resolve(ctx, "rq_2", BehaviorSmart, template.PurposeSend)

	require.True(t, ok)
	assert.Equal(t, "rq_2", resp.RequestID)
	assert.Equal(t, 1, store.sendCount)
}
