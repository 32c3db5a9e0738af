package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite://" + filepath.Join(t.TempDir(), "hitref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for _, dsn := range []string{
		filepath.Join(dir, "plain.db"),
		"sqlite:" + filepath.Join(dir, "colon.db"),
		"sqlite://" + filepath.Join(dir, "url.db"),
	} {
		s, err := Open(dsn)
		require.NoError(t, err, dsn)
		require.NoError(t, s.Close())
	}

	_, err := Open("  ")
	assert.Error(t, err)
}

func TestSaveAndGetRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	req := http.NewRequest("post", "http://example.com/login")
	req.Name = "login"
	req.SetHeader("Content-Type", "application/json").
		SetHeader("X-Trace", "{{uuid()}}").
		SetBody(`{"user":"{{user}}"}`).
		SetTimeout(1500 * time.Millisecond)

	require.NoError(t, s.SaveRequest(ctx, req))
	require.NotEmpty(t, req.ID)
	assert.Contains(t, req.ID, "rq_")

	got, err := s.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "login", got.Name)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, req.URL, got.URL)
	assert.Equal(t, req.Headers, got.Headers)
	assert.Equal(t, req.Body, got.Body)
	assert.Equal(t, 1500*time.Millisecond, got.Timeout)
	assert.Equal(t, http.DefaultWorkspace, got.WorkspaceID)
}

func TestSaveRequest_UpdateKeepsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	s.now = fixedClock()
	ctx := context.Background()

	req := http.NewRequest("GET", "http://example.com")
	require.NoError(t, s.SaveRequest(ctx, req))
	created := req.CreatedAt

	req.URL = "http://example.com/v2"
	require.NoError(t, s.SaveRequest(ctx, req))

	got, err := s.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/v2", got.URL)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.After(created))
}

func TestSaveRequest_RequiresMethodAndURL(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveRequest(context.Background(), &http.Request{Method: "GET"}))
	assert.Error(t, s.SaveRequest(context.Background(), &http.Request{URL: "http://x"}))
}

func TestGetByID_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetByID(context.Background(), "rq_missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListRequests(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, r := range []*http.Request{
		{Name: "b", Method: "GET", URL: "http://b", WorkspaceID: "default"},
		{Name: "a", Method: "GET", URL: "http://a", WorkspaceID: "default"},
		{Name: "c", Method: "GET", URL: "http://c", WorkspaceID: "other"},
	} {
		require.NoError(t, s.SaveRequest(ctx, r))
	}

	list, err := s.ListRequests(ctx, "default")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	all, err := s.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFindByRequestID_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	s.now = fixedClock()
	ctx := context.Background()

	req := http.NewRequest("GET", "http://example.com")
	require.NoError(t, s.SaveRequest(ctx, req))

	for _, code := range []int{200, 201, 202} {
		require.NoError(t, s.SaveResponse(ctx, &http.Response{
			RequestID:  req.ID,
			StatusCode: code,
			Headers:    []http.Header{{Name: "X-Code", Value: "v"}},
			Duration:   25 * time.Millisecond,
		}))
	}

	latest, err := s.FindByRequestID(ctx, req.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 202, latest[0].StatusCode)
	assert.Equal(t, "v", latest[0].Header("x-code"))
	assert.Equal(t, 25*time.Millisecond, latest[0].Duration)

	all, err := s.FindByRequestID(ctx, req.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{202, 201, 200}, []int{all[0].StatusCode, all[1].StatusCode, all[2].StatusCode})

	none, err := s.FindByRequestID(ctx, "rq_other", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByRequestID_SameInstantKeepsInsertOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveResponse(ctx, &http.Response{ID: "rs_1", RequestID: "rq_1", StatusCode: 200, CreatedAt: at}))
	require.NoError(t, s.SaveResponse(ctx, &http.Response{ID: "rs_2", RequestID: "rq_1", StatusCode: 200, CreatedAt: at}))

	latest, err := s.FindByRequestID(ctx, "rq_1", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "rs_2", latest[0].ID)
}

func TestDeleteRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	req := http.NewRequest("GET", "http://example.com")
	require.NoError(t, s.SaveRequest(ctx, req))
	require.NoError(t, s.SaveResponse(ctx, &http.Response{RequestID: req.ID, StatusCode: 200, BodyPath: "a.body"}))
	require.NoError(t, s.SaveResponse(ctx, &http.Response{RequestID: req.ID, StatusCode: 204}))

	paths, err := s.DeleteRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.body"}, paths)

	_, err = s.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := s.FindByRequestID(ctx, req.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = s.DeleteRequest(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBodyStore(t *testing.T) {
	dir := t.TempDir()
	bodies := NewBodyStore(filepath.Join(dir, "bodies"))

	handle, err := bodies.Write("rs_1", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, "rs_1.body", handle)

	text, err := bodies.ReadText(handle)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	text, err = bodies.ReadText("")
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = bodies.ReadText("missing.body")
	assert.Error(t, err)

	_, err = bodies.ReadText("../outside.body")
	assert.Error(t, err)

	_, err = bodies.Write("../escape", nil)
	assert.Error(t, err)

	require.NoError(t, bodies.Remove(handle, "missing.body"))
	_, err = os.Stat(filepath.Join(bodies.Dir(), handle))
	assert.True(t, os.IsNotExist(err))
}
