// Package records declares the storage ports the services read and write
// ledger records through.
package records

import (
	"context"
	"errors"

	"jizhang/internal/core"
)

var (
	// ErrNotFound is returned when a record id is unknown for the user.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when creating a record whose id is taken.
	ErrConflict = errors.New("record already exists")
)

// Ports for outbound adapters. Every call is scoped to one user id.
type (
	Reader interface {
		// ListRange returns the records dated in [start, end).
		ListRange(ctx context.Context, user string, start, end core.Date) ([]core.Record, error)
		ListAll(ctx context.Context, user string) ([]core.Record, error)
		// Earliest returns the record with the smallest date (then
		// timestamp), or nil when the user has none.
		Earliest(ctx context.Context, user string) (*core.Record, error)
		Get(ctx context.Context, user, id string) (core.Record, error)
	}

	Writer interface {
		// Create stores r and returns its id, assigning a UUID when r.ID
		// is empty.
		Create(ctx context.Context, user string, r core.Record) (id string, err error)
		Update(ctx context.Context, user string, r core.Record) error
		Delete(ctx context.Context, user, id string) error
	}

	// SettingsStore keeps the per-user category order. An empty order
	// means the default catalog order.
	SettingsStore interface {
		CategoryOrder(ctx context.Context, user string, kind core.Kind) ([]string, error)
		SetCategoryOrder(ctx context.Context, user string, kind core.Kind, ids []string) error
	}

	Store interface {
		Reader
		Writer
		SettingsStore
	}
)
