package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BodyStore keeps response bodies as files under a directory. The handle
// returned by Write is a path relative to that directory.
type BodyStore struct {
	dir string
}

func NewBodyStore(dir string) *BodyStore {
	return &BodyStore{dir: dir}
}

func (b *BodyStore) Dir() string {
	return b.dir
}

// Write stores body under responseID and returns its handle.
func (b *BodyStore) Write(responseID string, body []byte) (string, error) {
	if responseID == "" || strings.ContainsAny(responseID, `/\`) {
		return "", fmt.Errorf("invalid response id %q", responseID)
	}
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create body directory: %w", err)
	}
	name := responseID + ".body"
	if err := os.WriteFile(filepath.Join(b.dir, name), body, 0644); err != nil {
		return "", fmt.Errorf("failed to write body: %w", err)
	}
	return name, nil
}

// ReadText returns the stored body as text. An empty handle means the
// response had no body; a handle whose file is gone is an error.
func (b *BodyStore) ReadText(handle string) (string, error) {
	if handle == "" {
		return "", nil
	}
	path, err := b.resolve(handle)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read body %s: %w", handle, err)
	}
	return string(data), nil
}

// Remove deletes stored bodies, ignoring ones already gone.
func (b *BodyStore) Remove(handles ...string) error {
	var errs []error
	for _, h := range handles {
		path, err := b.resolve(h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolve keeps handles inside the body directory.
func (b *BodyStore) resolve(handle string) (string, error) {
	clean := filepath.Clean(handle)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("body handle %q escapes body directory", handle)
	}
	return filepath.Join(b.dir, clean), nil
}
