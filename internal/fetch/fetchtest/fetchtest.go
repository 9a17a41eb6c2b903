// Package fetchtest provides an in-memory Loader for tests.
package fetchtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// MapLoader serves fragments from a map and records every fetch
type MapLoader struct {
	mu     sync.Mutex
	files  map[string][]byte
	fails  map[string]int // path -> status to fail with
	calls  map[string]int
	order  []string
	before func(path string)
}

// NewMapLoader creates an empty loader
func NewMapLoader() *MapLoader {
	return &MapLoader{
		files: make(map[string][]byte),
		fails: make(map[string]int),
		calls: make(map[string]int),
	}
}

// Set stores a raw body for path
func (m *MapLoader) Set(path, body string) *MapLoader {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = []byte(body)
	delete(m.fails, path)
	return m
}

// SetJSON marshals v and stores it for path
func (m *MapLoader) SetJSON(path string, v any) *MapLoader {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fetchtest: marshal %s: %v", path, err))
	}
	return m.Set(path, string(data))
}

// Fail makes path fail with the given HTTP-style status
func (m *MapLoader) Fail(path string, status int) *MapLoader {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[path] = status
	return m
}

// OnFetch registers a hook called before each fetch, outside the lock
func (m *MapLoader) OnFetch(fn func(path string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.before = fn
}

// Fetch implements domain.Loader
func (m *MapLoader) Fetch(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	hook := m.before
	m.mu.Unlock()
	if hook != nil {
		hook(path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[path]++
	m.order = append(m.order, path)

	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}
	if status, ok := m.fails[path]; ok {
		return nil, &domain.FetchError{Path: path, Status: status}
	}
	body, ok := m.files[path]
	if !ok {
		return nil, &domain.FetchError{Path: path, Status: http.StatusNotFound}
	}
	return body, nil
}

// Calls returns how many times path was fetched
func (m *MapLoader) Calls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[path]
}

// TotalCalls returns the number of fetches across all paths
func (m *MapLoader) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Order returns fetched paths in call order
func (m *MapLoader) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
