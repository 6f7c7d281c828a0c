package client

import (
	"context"
	"net/url"
)

// DataService triggers refreshes and reads snapshots
type DataService struct {
	client *Client
}

// RefreshAll refreshes every enabled account
func (s *DataService) RefreshAll(ctx context.Context) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := s.client.doRequest(ctx, "POST", "/api/v1/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshAccount re-reads one account's balance
func (s *DataService) RefreshAccount(ctx context.Context, id string) (*Balance, error) {
	var bal Balance
	if err := s.client.doRequest(ctx, "POST", "/api/v1/accounts/"+url.PathEscape(id)+"/refresh", nil, &bal); err != nil {
		return nil, err
	}
	return &bal, nil
}

// RefreshRegions rebuilds the region cache. An empty accountID covers every enabled account.
func (s *DataService) RefreshRegions(ctx context.Context, accountID string) (*RefreshReport, error) {
	path := "/api/v1/regions/refresh"
	if accountID != "" {
		path += "?" + url.Values{"account": {accountID}}.Encode()
	}

	var report RefreshReport
	if err := s.client.doRequest(ctx, "POST", path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Snapshot returns the latest snapshot of an account
func (s *DataService) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.client.doRequest(ctx, "GET", "/api/v1/accounts/"+url.PathEscape(id)+"/snapshot", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Dashboard returns the aggregated view
func (s *DataService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := s.client.doRequest(ctx, "GET", "/api/v1/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
