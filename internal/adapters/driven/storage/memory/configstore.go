package memory

import (
	"sync"

	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map keyed by dotted path. Nothing is
// persisted, so Save and Load only count calls.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	saves  int
	loads  int
}

// NewConfigStore returns a store seeded with the given trees. Nested maps
// are flattened into dotted keys, so {"sources": {"aur": {"enabled": false}}}
// becomes "sources.aur.enabled".
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any)}
	for _, tree := range seed {
		flatten(s.values, tree, "")
	}
	return s
}

func flatten(dst, tree map[string]any, prefix string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, sub, key)
			continue
		}
		dst[key] = v
	}
}

func lookup[T any](s *ConfigStore, key string) T {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}
	return zero
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string { return lookup[string](s, key) }

func (s *ConfigStore) GetBool(key string) bool { return lookup[bool](s, key) }

func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Load() error {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()
	return nil
}

// Calls reports how many times Save and Load were invoked.
func (s *ConfigStore) Calls() (saves, loads int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves, s.loads
}

func (s *ConfigStore) Path() string { return ":memory:" }
