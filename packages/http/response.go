package http

import (
	"strings"
	"time"
)

// Response is a persisted response. The body lives in the body store and is
// referenced by BodyPath; an empty BodyPath means no body was stored.
type Response struct {
	ID          string        `json:"id"`
	RequestID   string        `json:"requestId"`
	WorkspaceID string        `json:"workspaceId"`
	StatusCode  int           `json:"statusCode"`
	Status      string        `json:"status"`
	Headers     []Header      `json:"headers"`
	BodyPath    string        `json:"bodyPath,omitempty"`
	BodySize    int64         `json:"bodySize"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (r *Response) Header(key string) string {
	v, _ := FindHeader(r.Headers, key)
	return v
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "json")
}

func (r *Response) IsXML() bool {
	return strings.Contains(r.ContentType(), "xml")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Result is the raw outcome of one network exchange, before its body is
// written to the body store.
type Result struct {
	StatusCode int
	Status     string
	Headers    []Header
	Body       []byte
	Duration   time.Duration
}

func (r *Result) BodyString() string {
	return string(r.Body)
}

func (r *Result) Header(key string) string {
	v, _ := FindHeader(r.Headers, key)
	return v
}
