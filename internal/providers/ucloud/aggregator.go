package ucloud

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// Aggregator merges per-region results into one collection.
//
// Tasks run in a plain errgroup.Group, not one derived with WithContext:
// each task reports through its own result slot and always returns nil,
// so a failing region never cancels its siblings.
type Aggregator struct {
	client *Client
	logger *logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(client *Client, log *logger.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		logger: log.Component("aggregator"),
	}
}

// Collect gathers instances from every target region, then volumes per
// instance and images and elastic IPs from the regions that held instances.
// An empty regions list resolves all regions first.
// The only error returned is the context's.
func (a *Aggregator) Collect(ctx context.Context, t providers.Target, regions []string) (*snapshot.Collection, error) {
	regions = lo.Uniq(lo.Compact(regions))
	if len(regions) == 0 {
		regions = a.client.ResolveRegions(ctx, t)
	}

	out := &snapshot.Collection{
		Instances:    []snapshot.Instance{},
		Images:       []snapshot.Image{},
		EIPs:         []snapshot.EIP{},
		ValidRegions: []string{},
	}
	if len(regions) == 0 {
		a.logger.With("account_id", t.AccountID).Warn("no regions to collect from")
		return out, ctx.Err()
	}

	// instances, one task per region
	perRegion := make([][]snapshot.Instance, len(regions))
	var g errgroup.Group
	for i, region := range regions {
		g.Go(func() error {
			perRegion[i] = a.client.Instances(ctx, t, region)
			return nil
		})
	}
	_ = g.Wait()

	for i, insts := range perRegion {
		if len(insts) == 0 {
			continue
		}
		out.Instances = append(out.Instances, insts...)
		out.ValidRegions = append(out.ValidRegions, regions[i])
	}

	if len(out.ValidRegions) == 0 {
		return out, ctx.Err()
	}

	// volumes per instance, images and EIPs per valid region
	volumes := make([][]snapshot.Volume, len(out.Instances))
	images := make([][]snapshot.Image, len(out.ValidRegions))
	eips := make([][]snapshot.EIP, len(out.ValidRegions))

	var g2 errgroup.Group
	for i, inst := range out.Instances {
		if inst.UHostID == "" || inst.Region == "" {
			continue
		}
		g2.Go(func() error {
			volumes[i] = a.client.Volumes(ctx, t, inst.Region, inst.UHostID)
			return nil
		})
	}
	for i, region := range out.ValidRegions {
		g2.Go(func() error {
			images[i] = a.client.Images(ctx, t, region)
			return nil
		})
		g2.Go(func() error {
			eips[i] = a.client.EIPs(ctx, t, region)
			return nil
		})
	}
	_ = g2.Wait()

	for i := range out.Instances {
		if len(volumes[i]) > 0 {
			out.Instances[i].Volumes = volumes[i]
		}
	}
	out.Images = mergeImages(images)
	out.EIPs = mergeEIPs(eips)

	a.logger.WithFields(map[string]interface{}{
		"account_id":    t.AccountID,
		"regions":       len(regions),
		"valid_regions": len(out.ValidRegions),
		"instances":     len(out.Instances),
		"images":        len(out.Images),
		"eips":          len(out.EIPs),
	}).Debug("collection merged")

	return out, ctx.Err()
}

// mergeImages flattens in region order and keeps the first record per ID.
func mergeImages(perRegion [][]snapshot.Image) []snapshot.Image {
	all := lo.Filter(lo.Flatten(perRegion), func(img snapshot.Image, _ int) bool {
		return img.ImageID != ""
	})
	return lo.UniqBy(all, func(img snapshot.Image) string { return img.ImageID })
}

// mergeEIPs flattens in region order and keeps the first record per ID.
func mergeEIPs(perRegion [][]snapshot.EIP) []snapshot.EIP {
	all := lo.Filter(lo.Flatten(perRegion), func(e snapshot.EIP, _ int) bool {
		return e.EIPID != ""
	})
	return lo.UniqBy(all, func(e snapshot.EIP) string { return e.EIPID })
}
