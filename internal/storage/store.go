// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore defines the interface for ledger snapshot persistence.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the ledger.
type SnapshotStore interface {
	// Load returns the most recently saved snapshot.
	// Returns ErrNoSnapshot if none has been saved.
	Load(ctx context.Context) (*models.Snapshot, error)

	// Save replaces the stored snapshot with snap.
	Save(ctx context.Context, snap *models.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
