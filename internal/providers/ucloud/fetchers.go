package ucloud

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// Balance fetches the account balance. Unlike the regional fetchers it
// returns every failure to the caller.
func (c *Client) Balance(ctx context.Context, t providers.Target) (*snapshot.Balance, error) {
	var resp balanceResponse
	if err := c.call(ctx, t.Credentials, ActionGetBalance, nil, &resp); err != nil {
		return nil, err
	}

	amount, err := resp.AccountInfo.amount()
	if err != nil {
		return nil, err
	}

	return &snapshot.Balance{
		AccountID: t.AccountID,
		Amount:    amount,
		Currency:  snapshot.CurrencyCNY,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Projects lists the account's projects. Provider faults are returned.
func (c *Client) Projects(ctx context.Context, t providers.Target) ([]snapshot.Project, error) {
	var resp projectResponse
	if err := c.call(ctx, t.Credentials, ActionListProjects, nil, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.Projects, func(p projectItem, _ int) snapshot.Project {
		return p.toDomain()
	}), nil
}

// Instances lists the hosts of one region, tagged with the region.
// Failures are logged and yield an empty list.
func (c *Client) Instances(ctx context.Context, t providers.Target, region string) []snapshot.Instance {
	var resp hostResponse
	if err := c.call(ctx, t.Credentials, ActionDescribeUHostInstance, Params{"Region": region}, &resp); err != nil {
		c.degraded(t, region, ActionDescribeUHostInstance, err)
		return nil
	}
	return lo.Map(resp.UHostSet, func(h hostItem, _ int) snapshot.Instance {
		return h.toDomain(region)
	})
}

// Volumes lists the disks of one region, optionally only those attached to hostID.
// Failures are logged and yield an empty list.
func (c *Client) Volumes(ctx context.Context, t providers.Target, region, hostID string) []snapshot.Volume {
	params := Params{"Region": region}
	if hostID != "" {
		params["UHostIdForAttachment"] = hostID
	}

	var resp diskResponse
	if err := c.call(ctx, t.Credentials, ActionDescribeUDisk, params, &resp); err != nil {
		c.degraded(t, region, ActionDescribeUDisk, err)
		return nil
	}
	return lo.Map(resp.DataSet, func(d diskItem, _ int) snapshot.Volume {
		return d.toDomain(region)
	})
}

// Images lists the images visible in one region.
// Failures are logged and yield an empty list.
func (c *Client) Images(ctx context.Context, t providers.Target, region string) []snapshot.Image {
	var resp imageResponse
	if err := c.call(ctx, t.Credentials, ActionDescribeImage, Params{"Region": region}, &resp); err != nil {
		c.degraded(t, region, ActionDescribeImage, err)
		return nil
	}
	return lo.Map(resp.ImageSet, func(i imageItem, _ int) snapshot.Image {
		return i.toDomain(region)
	})
}

// EIPs lists the elastic IPs of one region.
// Failures are logged and yield an empty list.
func (c *Client) EIPs(ctx context.Context, t providers.Target, region string) []snapshot.EIP {
	var resp eipResponse
	if err := c.call(ctx, t.Credentials, ActionDescribeEIP, Params{"Region": region}, &resp); err != nil {
		c.degraded(t, region, ActionDescribeEIP, err)
		return nil
	}
	return lo.Map(resp.EIPSet, func(e eipItem, _ int) snapshot.EIP {
		return e.toDomain(region)
	})
}

func (c *Client) degraded(t providers.Target, region, action string, err error) {
	fields := map[string]interface{}{
		"account_id": t.AccountID,
		"action":     action,
	}
	if region != "" {
		fields["region"] = region
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields["ret_code"] = apiErr.RetCode
	}
	c.logger.WithFields(fields).WarnWithErr(err, "provider call degraded to empty result")
}
