// Package storage keeps uploaded images (quote logos, project photos) in an
// object store and hands back the URL clients use to fetch them.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("object not found")

// ErrEmptyUpload is returned by DecodeDataURL for blank input.
var ErrEmptyUpload = errors.New("empty upload")

// Store is an object store.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Upload is a decoded inline file.
type Upload struct {
	Data        []byte
	ContentType string
}

// DecodeDataURL accepts a "data:<mime>;base64,<payload>" URL or a bare
// base64 payload. Everything up to the first comma is treated as header.
func DecodeDataURL(raw string) (Upload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Upload{}, ErrEmptyUpload
	}
	var header string
	if i := strings.IndexByte(raw, ','); i >= 0 {
		header, raw = raw[:i], raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Upload{}, fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return Upload{}, ErrEmptyUpload
	}
	ct := ""
	if strings.HasPrefix(header, "data:") {
		ct = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	}
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Upload{Data: data, ContentType: ct}, nil
}

var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// NewKey returns a unique object key under prefix, with an extension
// matching contentType when known.
func NewKey(prefix, contentType string) string {
	return path.Join(prefix, uuid.NewString()+extensions[contentType])
}

// Memory is an in-process Store for development and tests.
type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Upload
}

// NewMemory returns an empty store whose URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: strings.TrimSuffix(baseURL, "/"), objects: make(map[string]Upload)}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.objects[key] = Upload{Data: append([]byte(nil), data...), ContentType: contentType}
	m.mu.Unlock()
	return m.baseURL + "/" + key, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), obj.Data...), nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
