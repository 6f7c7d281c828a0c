// Package providers holds the contract every cloud provider adapter fulfils
// and the registry the orchestrator resolves adapters from.
package providers

import (
	"context"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

// Target identifies the account a provider call is made for.
// Credentials are plaintext and must not outlive the refresh cycle.
type Target struct {
	AccountID   string
	AccountName string
	Credentials account.Credentials
}

// Adapter is implemented once per provider
type Adapter interface {
	// Name is the provider tag the adapter is registered under
	Name() string

	// Balance fails loudly; a silent zero balance would be misleading.
	Balance(ctx context.Context, t Target) (*snapshot.Balance, error)

	// Projects lists the account's projects.
	Projects(ctx context.Context, t Target) ([]snapshot.Project, error)

	// Regions lists the provider's regions, one row per zone.
	Regions(ctx context.Context, t Target) ([]snapshot.Region, error)

	// Collect fans out across regions. An empty regions list resolves all regions.
	// Per-region failures degrade to empty results; only ctx errors are returned.
	Collect(ctx context.Context, t Target, regions []string) (*snapshot.Collection, error)

	// ValidateCredentials succeeds when the credentials can read the balance.
	ValidateCredentials(ctx context.Context, t Target) error
}
