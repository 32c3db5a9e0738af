package templatefn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/abdul-hamid-achik/hitref/packages/core/runner"
	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	hhttp "github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/abdul-hamid-achik/hitref/packages/resolver"
	"github.com/abdul-hamid-achik/hitref/packages/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	engine *template.Engine
	runner *runner.Runner
	store  *store.Store
}

func newStack(t *testing.T, baseURL string) *stack {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "hitref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	bodies := store.NewBodyStore(filepath.Join(dir, "bodies"))
	engine := template.New(nil)
	engine.SetWarnFunc(func(string, ...any) {})
	engine.SetVariable("base", baseURL)

	run := runner.NewRunner(nil, engine, st, bodies)
	res := resolver.New(run, st, nil)
	Register(engine, New(res, bodies, WithRequests(run, engine)))

	return &stack{engine: engine, runner: run, store: st}
}

func (s *stack) save(t *testing.T, req *hhttp.Request) {
	t.Helper()
	require.NoError(t, s.store.SaveRequest(context.Background(), req))
}

func (s *stack) history(t *testing.T, id string) []*hhttp.Response {
	t.Helper()
	rs, err := s.store.FindByRequestID(context.Background(), id, 0)
	require.NoError(t, err)
	return rs
}

func TestTokenChain(t *testing.T) {
	var logins, profiles int32
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login":
			n := atomic.AddInt32(&logins, 1)
			_, _ = fmt.Fprintf(w, `{"token":"t-%d"}`, n)
		case "/me":
			atomic.AddInt32(&profiles, 1)
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"name":"ada"}`))
		}
	}))
	defer server.Close()

	s := newStack(t, server.URL)
	login := &hhttp.Request{ID: "rq_login", Method: "POST", URL: "{{base}}/login"}
	profile := &hhttp.Request{
		ID:      "rq_profile",
		Method:  "GET",
		URL:     "{{base}}/me",
		Headers: []hhttp.Header{{Name: "Authorization", Value: `Bearer {{ response(request="rq_login", path="$.token") }}`}},
	}
	s.save(t, login)
	s.save(t, profile)
	ctx := context.Background()

	_, _, err := s.runner.Run(ctx, "rq_profile")
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins, "login sent once because nothing was cached")
	assert.Equal(t, "Bearer t-1", gotAuth)

	_, _, err = s.runner.Run(ctx, "rq_profile")
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins, "smart reuses the cached login")
	assert.Equal(t, "Bearer t-1", gotAuth)

	profile.Headers[0].Value = `Bearer {{ response(request="rq_login", path="$.token", behavior="always") }}`
	s.save(t, profile)

	preview := s.engine.Render(ctx, profile.Headers[0].Value, template.PurposePreview)
	assert.Equal(t, "Bearer t-1", preview, "always acts as smart while previewing")
	assert.Equal(t, int32(1), logins)

	_, _, err = s.runner.Run(ctx, "rq_profile")
	require.NoError(t, err)
	assert.Equal(t, int32(2), logins, "always sends when the outer request is sent")
	assert.Equal(t, "Bearer t-2", gotAuth)
	assert.Equal(t, int32(3), profiles)
}

func TestSelfReferenceTerminates(t *testing.T) {
	var hits int32
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"n":%d}`, n)
	}))
	defer server.Close()

	for _, behavior := range []string{"smart", "always"} {
		t.Run(behavior, func(t *testing.T) {
			atomic.StoreInt32(&hits, 0)
			bodies = nil

			s := newStack(t, server.URL)
			s.save(t, &hhttp.Request{
				ID:     "rq_self",
				Method: "POST",
				URL:    "{{base}}/counter",
				Body:   fmt.Sprintf(`{"prev":"{{ response.body.path(request="rq_self", path="$.n", behavior="%s") }}"}`, behavior),
			})
			ctx := context.Background()

			_, resp, err := s.runner.Run(ctx, "rq_self")
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, int32(1), hits)
			assert.Equal(t, `{"prev":""}`, bodies[0], "no prior response exists yet")

			_, _, err = s.runner.Run(ctx, "rq_self")
			require.NoError(t, err)
			assert.Equal(t, int32(2), hits)
			assert.Equal(t, `{"prev":"1"}`, bodies[1], "the previous response is used, never a new one")

			assert.Len(t, s.history(t, "rq_self"), 2)
		})
	}
}

func TestResolveSendsOnceFromTemplate(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("X-Request-Id", "abc")
		_, _ = w.Write([]byte(`<order id="9"><total>12.50</total></order>`))
	}))
	defer server.Close()

	s := newStack(t, server.URL)
	s.save(t, &hhttp.Request{ID: "rq_order", Method: "GET", URL: "{{base}}/order"})
	ctx := context.Background()

	out := s.engine.Render(ctx,
		`{{ response.body.path(request="rq_order", path="/order/total") }} `+
			`{{ response.body.path(request="rq_order", path="/order/@id") }} `+
			`{{ response.header(request="rq_order", header="x-request-id") }}`,
		template.PurposeSend)

	assert.Equal(t, "12.50 9 abc", out)
	assert.Equal(t, int32(1), hits, "first lookup sends, later ones reuse")

	out = s.engine.Render(ctx, `{{ request.body(request="rq_missing") }}|{{ response.body.raw(request="rq_missing") }}`, template.PurposeSend)
	assert.Equal(t, "|", out)
}
