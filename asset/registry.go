package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
)

// ErrModelNotFound is returned when a path is neither in the asset directory nor built in
var ErrModelNotFound = errors.New("model not found")

// ModelRegistry resolves models by path, loading each at most once
// Safe for concurrent use
type ModelRegistry struct {
	fsys fs.FS

	mu     sync.RWMutex
	models map[string]*Model
}

// NewModelRegistry creates a registry reading from fsys; nil serves built-in models only
func NewModelRegistry(fsys fs.FS) *ModelRegistry {
	return &ModelRegistry{
		fsys:   fsys,
		models: make(map[string]*Model),
	}
}

// Get returns the model at path, loading and caching it on first use
// Failures are not cached so a fixed file is picked up on the next call
func (r *ModelRegistry) Get(path string) (*Model, error) {
	r.mu.RLock()
	m, ok := r.models[path]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[path]; ok {
		return m, nil
	}

	data, err := r.read(path)
	if err != nil {
		return nil, err
	}
	m, err = ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	r.models[path] = m
	log.Printf("Loaded model %q from %s (%d glyphs)", m.Name, path, len(m.Glyphs))
	return m, nil
}

// Preload loads every path, returning the first failure
func (r *ModelRegistry) Preload(paths ...string) error {
	for _, p := range paths {
		if _, err := r.Get(p); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cached models
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

func (r *ModelRegistry) read(path string) ([]byte, error) {
	if r.fsys != nil {
		data, err := fs.ReadFile(r.fsys, path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model %s: %w", path, err)
		}
	}
	if src, ok := builtinModels[path]; ok {
		return []byte(src), nil
	}
	return nil, fmt.Errorf("model %s: %w", path, ErrModelNotFound)
}
