package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *http.Request {
	return &http.Request{
		ID:      "rq_1",
		Name:    "login",
		Method:  "POST",
		URL:     "http://example.com/login",
		Headers: []http.Header{{Name: "Content-Type", Value: "application/json"}},
		Body:    `{"user":"demo"}`,
	}
}

func sampleResponse() *http.Response {
	return &http.Response{
		ID:         "rs_1",
		RequestID:  "rq_1",
		StatusCode: 201,
		Headers:    []http.Header{{Name: "X-Id", Value: "9"}},
		BodySize:   12,
		Duration:   42 * time.Millisecond,
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatRequests([]*http.Request{sampleRequest()})
	assert.Contains(t, buf.String(), "rq_1")
	assert.Contains(t, buf.String(), "login")
	assert.Contains(t, buf.String(), "1 requests")

	buf.Reset()
	f.FormatRequests(nil)
	assert.Contains(t, buf.String(), "No requests stored")

	buf.Reset()
	f.FormatRequest(sampleRequest())
	assert.Contains(t, buf.String(), "POST http://example.com/login")
	assert.Contains(t, buf.String(), "Content-Type: application/json")
	assert.Contains(t, buf.String(), `{"user":"demo"}`)

	buf.Reset()
	f.FormatResponse(sampleRequest(), sampleResponse(), `{"id":9}`)
	assert.Contains(t, buf.String(), "201")
	assert.Contains(t, buf.String(), "(42ms)")
	assert.Contains(t, buf.String(), "X-Id: 9")
	assert.Contains(t, buf.String(), `{"id":9}`)

	buf.Reset()
	f.FormatHistory("rq_1", []*http.Response{sampleResponse()})
	assert.Contains(t, buf.String(), "History: rq_1")
	assert.Contains(t, buf.String(), "2024-05-01 12:00:00")
	assert.Contains(t, buf.String(), "rs_1")

	buf.Reset()
	f.FormatFunctions([]*template.Definition{{
		Name:        "response.body.path",
		Description: "Extract a value",
		Aliases:     []string{"response"},
		Args: []template.Arg{
			{Name: "request"},
			{Name: "behavior", Default: "smart", Options: []string{"smart", "always"}, Optional: true},
		},
	}})
	assert.Contains(t, buf.String(), "response.body.path(request, behavior?)")
	assert.Contains(t, buf.String(), "aliases: response")
	assert.Contains(t, buf.String(), "options=smart|always")

	buf.Reset()
	f.FormatRendered("Bearer ", []string{"token"})
	assert.Contains(t, buf.String(), "unresolved: {{token}}")

	buf.Reset()
	f.FormatError(errors.New("boom"))
	assert.Contains(t, buf.String(), "Error: boom")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(WithJSONWriter(&buf))

	f.FormatResponse(sampleRequest(), sampleResponse(), `{"id":9}`)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "rs_1", resp["id"])
	assert.Equal(t, float64(201), resp["statusCode"])
	assert.Equal(t, float64(42), resp["durationMs"])
	assert.Equal(t, `{"id":9}`, resp["body"])

	buf.Reset()
	f.FormatHistory("rq_1", nil)
	var history JSONHistory
	require.NoError(t, json.Unmarshal(buf.Bytes(), &history))
	assert.Equal(t, "rq_1", history.RequestID)
	assert.NotNil(t, history.Responses)

	buf.Reset()
	f.FormatRequests(nil)
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	f.FormatRendered("Bearer abc", nil)
	assert.JSONEq(t, `{"text":"Bearer abc","unresolved":[]}`, buf.String())

	buf.Reset()
	f.FormatError(errors.New("boom"))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONFormatter{}, New("json", &buf, true, false))
	assert.IsType(t, &ConsoleFormatter{}, New("console", &buf, true, false))
	assert.IsType(t, &ConsoleFormatter{}, New("", &buf, true, false))
}
