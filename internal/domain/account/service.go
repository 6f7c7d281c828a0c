package account

import "context"

// Service defines the interface for account management
type Service interface {
	// Create encrypts the credentials and stores a new account.
	// When validate is set the credentials are checked against the provider first.
	Create(ctx context.Context, in CreateInput, validate bool) (*Account, error)

	// Get retrieves an account by ID
	Get(ctx context.Context, id string) (*Account, error)

	// Update applies non-nil fields of in
	Update(ctx context.Context, id string, in UpdateInput, validate bool) (*Account, error)

	// Delete removes the account together with its cached data
	Delete(ctx context.Context, id string) error

	// List returns every account
	List(ctx context.Context) ([]*Account, error)

	// SetEnabled toggles whether refreshes include the account
	SetEnabled(ctx context.Context, id string, enabled bool) (*Account, error)

	// Credentials decrypts the key pair of acc with the unlocked passphrase
	Credentials(ctx context.Context, acc *Account) (Credentials, error)
}
