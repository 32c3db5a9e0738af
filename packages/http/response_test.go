package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindHeader(t *testing.T) {
	headers := []Header{
		{Name: "Content-Type", Value: "x"},
		{Name: "X-Trace", Value: "first"},
		{Name: "x-trace", Value: "second"},
	}

	tests := []struct {
		name   string
		target string
		want   string
		found  bool
	}{
		{"case-insensitive match", "content-type", "x", true},
		{"exact match", "Content-Type", "x", true},
		{"duplicates use first", "X-TRACE", "first", true},
		{"missing", "Authorization", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindHeader(headers, tt.target)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := FindHeader(nil, "anything")
	assert.False(t, ok)
}

func TestParseHeader(t *testing.T) {
	h, ok := ParseHeader("Accept:  application/json ")
	assert.True(t, ok)
	assert.Equal(t, Header{Name: "Accept", Value: "application/json"}, h)

	h, ok = ParseHeader("X-Url: http://example.com")
	assert.True(t, ok)
	assert.Equal(t, "http://example.com", h.Value)

	_, ok = ParseHeader("no separator")
	assert.False(t, ok)

	_, ok = ParseHeader(": value")
	assert.False(t, ok)
}

func TestRequest_SetHeaderAndClone(t *testing.T) {
	req := NewRequest("post", "http://example.com")
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, DefaultWorkspace, req.WorkspaceID)

	req.SetHeader("Accept", "text/plain").SetHeader("accept", "application/json")
	assert.Len(t, req.Headers, 1)
	assert.Equal(t, "application/json", req.Headers[0].Value)

	clone := req.Clone()
	clone.Headers[0].Value = "changed"
	assert.Equal(t, "application/json", req.Headers[0].Value)
}

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_ContentKinds(t *testing.T) {
	tests := []struct {
		contentType string
		json        bool
		xml         bool
	}{
		{"application/json", true, false},
		{"application/problem+json; charset=utf-8", true, false},
		{"application/xml", false, true},
		{"text/html", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		resp := &Response{Headers: []Header{{Name: "content-type", Value: tt.contentType}}}
		assert.Equal(t, tt.json, resp.IsJSON(), "Content-Type: %s", tt.contentType)
		assert.Equal(t, tt.xml, resp.IsXML(), "Content-Type: %s", tt.contentType)
	}
}
