package draft

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Tests use it in place of the embedded
// JetStream backend.
type Memory struct {
	mu    sync.Mutex
	d     Draft
	saved bool
	saves int
}

// SaveCount returns how many Save calls succeeded.
func (m *Memory) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(_ context.Context, d Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields := make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = v
	}
	d.Fields = fields
	m.d = d
	m.saved = true
	m.saves++
	return nil
}

func (m *Memory) Load(context.Context) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return Draft{}, ErrNoDraft
	}
	return m.d, nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d = Draft{}
	m.saved = false
	return nil
}
