package http

import "strings"

// Header is a single name/value pair. Header lists keep their original order
// and duplicate names are never merged.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FindHeader returns the value of the first header whose name matches name
// case-insensitively.
func FindHeader(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// ParseHeader splits a "Name: value" line.
func ParseHeader(line string) (Header, bool) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return Header{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Header{}, false
	}
	return Header{Name: name, Value: strings.TrimSpace(value)}, true
}
