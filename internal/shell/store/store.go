package store

import (
	"context"
	"time"

	"github.com/komalmemorial/volunteer/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for volunteers.
type Store interface {
	// Volunteer operations
	CreateVolunteer(ctx context.Context, volunteer *domain.Volunteer) error
	GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error)
	ListVolunteers(ctx context.Context, opts ListOptions) ([]domain.Volunteer, error) // newest first
	CountVolunteers(ctx context.Context) (int, error)

	// Health
	Ping(ctx context.Context) error

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination options.
// When Before is set, only volunteers listed after it (older, or equally old
// with a smaller ID) are returned; Offset then skips within that range.
type ListOptions struct {
	Limit  int
	Offset int
	Before Cursor
}

// Cursor is a position in the newest-first volunteer order.
type Cursor struct {
	RegisteredAt time.Time
	ID           string
}

// IsZero reports whether the cursor is unset.
func (c Cursor) IsZero() bool {
	return c.ID == ""
}

// CursorOf returns the cursor positioned at v.
func CursorOf(v *domain.Volunteer) Cursor {
	return Cursor{RegisteredAt: v.RegisteredAt.UTC(), ID: v.ID}
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if !o.Before.IsZero() {
		o.Before.RegisteredAt = o.Before.RegisteredAt.UTC().Round(0)
	}
	return o
}
