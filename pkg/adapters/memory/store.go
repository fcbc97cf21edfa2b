// Package memory provides an in-memory controls store, the default when no
// durable persistence is configured.
package memory

import (
	"context"
	"sync"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// Store implements ports.ControlsStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.ControlDescriptor
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.ControlDescriptor),
	}
}

// Cached retrieves the persisted controls for a node.
func (s *Store) Cached(ctx context.Context, nodeID string) ([]domain.ControlDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	controls, ok := s.data[nodeID]
	if !ok {
		return nil, domain.ErrControlsNotFound
	}
	// Copy on read so the caller cannot mutate stored descriptors.
	return domain.CloneControls(controls), nil
}

// Persist stores the controls for a node, replacing any previous set.
func (s *Store) Persist(ctx context.Context, nodeID string, controls []domain.ControlDescriptor) error {
	copied := domain.CloneControls(controls)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[nodeID] = copied
	return nil
}

// Delete removes the persisted controls for a node.
func (s *Store) Delete(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, nodeID)
	return nil
}

// List returns the node ids with persisted controls.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
