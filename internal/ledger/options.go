package ledger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// Observer receives notifications about ledger activity, e.g. for metrics.
type Observer interface {
	// MutationApplied is called after every mutation attempt.
	MutationApplied(op string, err error)
	// SnapshotSaveFailed is called when a save returns an error.
	SnapshotSaveFailed()
	// ExpenseCount reports the size of the expense collection.
	ExpenseCount(n int)
}

type nopObserver struct{}

func (nopObserver) MutationApplied(string, error) {}
func (nopObserver) SnapshotSaveFailed()           {}
func (nopObserver) ExpenseCount(int)              {}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithClock overrides time.Now, used for expenses recorded without a date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithBootstrap sets the dataset used when no snapshot can be loaded.
func WithBootstrap(snap models.Snapshot) Option {
	return func(s *Store) { s.bootstrap = snap }
}

// WithCurrentUser sets the user acting when a caller has no identity of its own.
func WithCurrentUser(userID string) Option {
	return func(s *Store) { s.currentUserID = userID }
}

func defaultID() string {
	return uuid.New().String()
}
