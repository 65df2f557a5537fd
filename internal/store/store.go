package store

import "context"

// Store persists session records.
type Store interface {
	// GetOrCreate returns the record for id, inserting one with
	// status initializing when none exists.
	GetOrCreate(ctx context.Context, id string) (*Session, error)

	// Get returns ErrNotFound when no record exists.
	Get(ctx context.Context, id string) (*Session, error)

	// Update merges p into the record for id, creating it when absent.
	// It never reads the current record first.
	Update(ctx context.Context, id string, p Patch) error

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]Session, error)
}
