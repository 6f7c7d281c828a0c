package client

import (
	"context"
	"fmt"
	"net/url"
)

// AccountService handles account management
type AccountService struct {
	client *Client
}

// CreateAccountRequest carries plaintext credentials; the server encrypts them
type CreateAccountRequest struct {
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Region     string `json:"region,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// UpdateAccountRequest leaves nil fields untouched
type UpdateAccountRequest struct {
	Name       *string `json:"name,omitempty"`
	PublicKey  *string `json:"public_key,omitempty"`
	PrivateKey *string `json:"private_key,omitempty"`
	Region     *string `json:"region,omitempty"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

// List retrieves every account
func (s *AccountService) List(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := s.client.doRequest(ctx, "GET", "/api/v1/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Get retrieves one account
func (s *AccountService) Get(ctx context.Context, id string) (*Account, error) {
	var acc Account
	if err := s.client.doRequest(ctx, "GET", "/api/v1/accounts/"+url.PathEscape(id), nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create adds an account. With validate set the server checks the keys first.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest, validate bool) (*Account, error) {
	path := "/api/v1/accounts"
	if validate {
		path += "?validate=true"
	}

	var acc Account
	if err := s.client.doRequest(ctx, "POST", path, req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Update changes an account
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest, validate bool) (*Account, error) {
	path := "/api/v1/accounts/" + url.PathEscape(id)
	if validate {
		path += "?validate=true"
	}

	var acc Account
	if err := s.client.doRequest(ctx, "PUT", path, req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Delete removes an account with its cached data and rules
func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/accounts/"+url.PathEscape(id), nil, nil)
}

// SetEnabled includes or excludes the account from refreshes
func (s *AccountService) SetEnabled(ctx context.Context, id string, enabled bool) (*Account, error) {
	action := "disable"
	if enabled {
		action = "enable"
	}

	var acc Account
	path := fmt.Sprintf("/api/v1/accounts/%s/%s", url.PathEscape(id), action)
	if err := s.client.doRequest(ctx, "POST", path, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
