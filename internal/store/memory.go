package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
)

// Memory is a map-backed Store for tests and ephemeral runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	decodeInto(raw, dest)
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "store: marshal %s", key)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// Corrupt seeds an unparseable value under key, for exercising the
// default-on-corruption contract in tests.
func (m *Memory) Corrupt(key string) {
	m.mu.Lock()
	m.data[key] = []byte("{not json")
	m.mu.Unlock()
}
