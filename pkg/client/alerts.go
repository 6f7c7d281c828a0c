package client

import (
	"context"
	"net/url"
	"strconv"
)

// AlertService handles alert rules and notifications
type AlertService struct {
	client *Client
}

// RuleRequest creates or replaces a rule
type RuleRequest struct {
	AccountID string  `json:"account_id"`
	Type      string  `json:"type"` // balance or usage
	Threshold float64 `json:"threshold"`
	Operator  string  `json:"operator"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// NotificationListOptions contains options for listing notifications
type NotificationListOptions struct {
	ListOptions
	UnreadOnly bool
}

// ListRules retrieves every rule
func (s *AlertService) ListRules(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateRule adds a rule
func (s *AlertService) CreateRule(ctx context.Context, req RuleRequest) (*Rule, error) {
	var rule Rule
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/rules", req, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// UpdateRule replaces a rule
func (s *AlertService) UpdateRule(ctx context.Context, id string, req RuleRequest) (*Rule, error) {
	var rule Rule
	if err := s.client.doRequest(ctx, "PUT", "/api/v1/alerts/rules/"+url.PathEscape(id), req, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeleteRule removes a rule
func (s *AlertService) DeleteRule(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/alerts/rules/"+url.PathEscape(id), nil, nil)
}

// Check evaluates the rules now
func (s *AlertService) Check(ctx context.Context) (*CheckResult, error) {
	var res CheckResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/check", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Notifications retrieves one page of notifications, newest first
func (s *AlertService) Notifications(ctx context.Context, opts *NotificationListOptions) (*NotificationPage, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.UnreadOnly {
			query.Set("unread", "true")
		}
	}

	path := "/api/v1/alerts/notifications"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page NotificationPage
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MarkRead marks one notification read
func (s *AlertService) MarkRead(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "POST", "/api/v1/alerts/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// MarkAllRead marks every notification read
func (s *AlertService) MarkAllRead(ctx context.Context) error {
	return s.client.doRequest(ctx, "POST", "/api/v1/alerts/notifications/read-all", nil, nil)
}

// DeleteNotification removes one notification
func (s *AlertService) DeleteNotification(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/alerts/notifications/"+url.PathEscape(id), nil, nil)
}
