// Package store defines persistence for saved candidate views.
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// ErrNotFound is returned when a view does not exist.
var ErrNotFound = errors.New("view not found")

// Store defines the persistence interface for saved views.
type Store interface {
	// SaveView inserts v, or replaces the view with the same name. v.ID,
	// v.CreatedAt and v.UpdatedAt are set from the stored row.
	SaveView(ctx context.Context, v *model.View) error
	// GetView looks a view up by ID or by name.
	GetView(ctx context.Context, ref string) (*model.View, error)
	ListViews(ctx context.Context) ([]*model.View, error)
	DeleteView(ctx context.Context, ref string) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
