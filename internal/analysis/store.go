package analysis

import (
	"sort"
	"sync"

	"github.com/vk/buildgrid/internal/label"
)

// Store collects the analysis values of one run, keyed by target label.
// All operations are concurrency-safe; the analyzer's workers write into it
// in parallel while dependents read their dependencies' values.
type Store struct {
	// mu protects the values map during concurrent access.
	mu sync.RWMutex
	// values holds one value per analyzed target.
	values map[label.Label]*Value
}

// NewStore creates an initialized, empty store.
func NewStore() *Store {
	return &Store{
		values: make(map[label.Label]*Value),
	}
}

// Put records the value for its target, replacing any previous one.
func (s *Store) Put(v *Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[v.Label()] = v
}

// Get returns the value for the given label, and whether one exists.
func (s *Store) Get(l label.Label) (*Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[l]
	return v, ok
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Labels returns the labels of all stored values in canonical string order.
func (s *Store) Labels() []label.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]label.Label, 0, len(s.values))
	for l := range s.values {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return labels
}
