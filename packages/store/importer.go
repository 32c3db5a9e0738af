package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// importSchema describes the native import document:
//
//	{"workspace": "default", "requests": [{"name": "...", "method": "GET", "url": "..."}]}
const importSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["requests"],
  "properties": {
    "workspace": {"type": "string"},
    "requests": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["method", "url"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "method": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1},
          "body": {"type": "string"},
          "timeoutMs": {"type": "integer", "minimum": 0},
          "headers": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "value": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

// ImportFile reads an import document from path and saves its requests.
func (s *Store) ImportFile(ctx context.Context, path string) ([]*http.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return s.Import(ctx, data)
}

// Import validates an import document and saves every request in it. A
// request carrying an id replaces the stored request with that id. Nothing
// is saved when the document is invalid.
func (s *Store) Import(ctx context.Context, data []byte) ([]*http.Request, error) {
	requests, err := ParseImport(data)
	if err != nil {
		return nil, err
	}
	for _, req := range requests {
		if err := s.SaveRequest(ctx, req); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

// ParseImport validates data against the import schema and returns the
// requests it describes.
func ParseImport(data []byte) ([]*http.Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("import document is not valid JSON")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(importSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("invalid import document: %s", strings.Join(errs, "; "))
	}

	doc := gjson.ParseBytes(data)
	workspace := doc.Get("workspace").String()
	if workspace == "" {
		workspace = http.DefaultWorkspace
	}

	var requests []*http.Request
	doc.Get("requests").ForEach(func(_, item gjson.Result) bool {
		req := http.NewRequest(item.Get("method").String(), item.Get("url").String())
		req.ID = item.Get("id").String()
		req.WorkspaceID = workspace
		req.Name = item.Get("name").String()
		req.Body = item.Get("body").String()
		req.Timeout = time.Duration(item.Get("timeoutMs").Int()) * time.Millisecond
		item.Get("headers").ForEach(func(_, h gjson.Result) bool {
			req.Headers = append(req.Headers, http.Header{
				Name:  h.Get("name").String(),
				Value: h.Get("value").String(),
			})
			return true
		})
		requests = append(requests, req)
		return true
	})
	return requests, nil
}
