package account

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no account matches the given id
var ErrNotFound = errors.New("account not found")

// Repository defines the interface for account data access
type Repository interface {
	// Create stores a new account
	Create(ctx context.Context, acc *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// Update replaces the stored account
	Update(ctx context.Context, acc *Account) error

	// Delete deletes an account
	Delete(ctx context.Context, id string) error

	// List retrieves all accounts ordered by creation time
	List(ctx context.Context) ([]*Account, error)

	// ListEnabled retrieves accounts with enabled = true
	ListEnabled(ctx context.Context) ([]*Account, error)
}
