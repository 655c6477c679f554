// Package memory provides an in-process implementation of storage.SnapshotStore.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.SnapshotStore = (*Store)(nil)

// Store keeps the snapshot as encoded JSON so it behaves like a durable
// backend: nothing the caller keeps is aliased, and dates go through the
// same text form.
type Store struct {
	mu    sync.Mutex
	data  []byte
	saves int

	// LoadErr and SaveErr, when set, are returned instead of doing the work.
	LoadErr error
	SaveErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Load decodes the stored snapshot.
func (s *Store) Load(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.data == nil {
		return nil, storage.ErrNoSnapshot
	}

	var snap models.Snapshot
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and stores snap.
func (s *Store) Save(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	s.data = data
	s.saves++
	return nil
}

// Saves returns how many successful saves have happened.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
