package semantic

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Model owns the single embedding model instance for a process. Concurrent
// Get calls during a load share that load instead of starting their own.
type Model struct {
	loader Loader
	group  singleflight.Group

	mu    sync.Mutex
	emb   Embedder
	loads int
}

// NewModel returns an unloaded model backed by loader.
func NewModel(loader Loader) *Model {
	return &Model{loader: loader}
}

// Get returns the loaded embedder, loading it on first use.
func (m *Model) Get(ctx context.Context, progress func(LoadingProgress)) (Embedder, error) {
	if emb := m.current(); emb != nil {
		return emb, nil
	}
	if progress == nil {
		progress = func(LoadingProgress) {}
	}

	v, err, _ := m.group.Do("model", func() (any, error) {
		if emb := m.current(); emb != nil {
			return emb, nil
		}
		emb, err := m.loader(ctx, progress)
		if err != nil {
			return nil, &ModelError{Message: "failed to load model", Cause: err}
		}
		m.mu.Lock()
		m.emb = emb
		m.loads++
		m.mu.Unlock()
		return emb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Embedder), nil
}

// Loaded reports whether a model is currently held.
func (m *Model) Loaded() bool {
	return m.current() != nil
}

// Loads returns how many times the loader has succeeded.
func (m *Model) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// Unload releases the model, closing it when it implements io.Closer.
func (m *Model) Unload() error {
	m.mu.Lock()
	emb := m.emb
	m.emb = nil
	m.mu.Unlock()

	if c, ok := emb.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (m *Model) current() Embedder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emb
}
