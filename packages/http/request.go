package http

import (
	"strings"
	"time"
)

// DefaultWorkspace is used when a request is created without a workspace.
const DefaultWorkspace = "default"

// Request is a stored request definition. URL, header values and Body may
// contain template expressions; they are only substituted on a rendered copy.
type Request struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspaceId"`
	Name        string        `json:"name"`
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	Headers     []Header      `json:"headers"`
	Body        string        `json:"body,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		WorkspaceID: DefaultWorkspace,
		Method:      strings.ToUpper(method),
		URL:         requestURL,
	}
}

// SetHeader replaces the first header named key, or appends a new one.
func (r *Request) SetHeader(key, value string) *Request {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, key) {
			r.Headers[i].Value = value
			return r
		}
	}
	r.Headers = append(r.Headers, Header{Name: key, Value: value})
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) Header(key string) (string, bool) {
	return FindHeader(r.Headers, key)
}

// Clone returns a deep copy so a rendered request never aliases the stored one.
func (r *Request) Clone() *Request {
	c := *r
	if r.Headers != nil {
		c.Headers = make([]Header, len(r.Headers))
		copy(c.Headers, r.Headers)
	}
	return &c
}

// DisplayName returns Name, or "METHOD URL" for unnamed requests.
func (r *Request) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Method + " " + r.URL
}
