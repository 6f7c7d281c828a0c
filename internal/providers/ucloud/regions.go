package ucloud

import (
	"context"

	"github.com/samber/lo"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// ListRegions returns the provider's zone rows.
func (c *Client) ListRegions(ctx context.Context, t providers.Target) ([]snapshot.Region, error) {
	var resp regionResponse
	if err := c.call(ctx, t.Credentials, ActionGetRegion, nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.Regions, func(item regionItem, _ int) snapshot.Region {
		return item.toDomain()
	}), nil
}

// ResolveRegions returns the distinct region names in provider order.
// A failed listing is logged and yields no regions.
func (c *Client) ResolveRegions(ctx context.Context, t providers.Target) []string {
	regions, err := c.ListRegions(ctx, t)
	if err != nil {
		c.degraded(t, "", ActionGetRegion, err)
		return nil
	}
	return RegionNames(regions)
}

// RegionNames collapses zone rows into distinct region names, first occurrence first.
func RegionNames(regions []snapshot.Region) []string {
	names := lo.FilterMap(regions, func(r snapshot.Region, _ int) (string, bool) {
		return r.Region, r.Region != ""
	})
	return lo.Uniq(names)
}
