package ucloud

import (
	"context"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// Adapter exposes the UCloud client through the providers.Adapter contract
type Adapter struct {
	client     *Client
	aggregator *Aggregator
}

var _ providers.Adapter = (*Adapter)(nil)

// NewAdapter creates a new UCloud adapter
func NewAdapter(cfg Config, log *logger.Logger) *Adapter {
	client := NewClient(cfg, log)
	return &Adapter{
		client:     client,
		aggregator: NewAggregator(client, log),
	}
}

func (a *Adapter) Name() string {
	return account.ProviderUCloud
}

func (a *Adapter) Balance(ctx context.Context, t providers.Target) (*snapshot.Balance, error) {
	return a.client.Balance(ctx, t)
}

func (a *Adapter) Projects(ctx context.Context, t providers.Target) ([]snapshot.Project, error) {
	return a.client.Projects(ctx, t)
}

func (a *Adapter) Regions(ctx context.Context, t providers.Target) ([]snapshot.Region, error) {
	return a.client.ListRegions(ctx, t)
}

func (a *Adapter) Collect(ctx context.Context, t providers.Target, regions []string) (*snapshot.Collection, error) {
	return a.aggregator.Collect(ctx, t, regions)
}

// ValidateCredentials reads the balance and discards it
func (a *Adapter) ValidateCredentials(ctx context.Context, t providers.Target) error {
	_, err := a.client.Balance(ctx, t)
	return err
}

// Close releases idle connections
func (a *Adapter) Close() {
	a.client.CloseIdleConnections()
}
