package client

import "context"

// SessionService handles the master password lifecycle
type SessionService struct {
	client *Client
}

type passwordRequest struct {
	Password string `json:"password"`
}

// Status reports whether the server is set up and unlocked
func (s *SessionService) Status(ctx context.Context) (*SessionStatus, error) {
	var st SessionStatus
	if err := s.client.doRequest(ctx, "GET", "/api/v1/session", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Setup stores the master password the first time and opens a session
func (s *SessionService) Setup(ctx context.Context, password string) (*SessionToken, error) {
	return s.open(ctx, "/api/v1/session/setup", password)
}

// Unlock opens a session. The returned token is used for later requests.
func (s *SessionService) Unlock(ctx context.Context, password string) (*SessionToken, error) {
	return s.open(ctx, "/api/v1/session/unlock", password)
}

// Lock closes the server session and forgets the local token
func (s *SessionService) Lock(ctx context.Context) error {
	if err := s.client.doRequest(ctx, "POST", "/api/v1/session/lock", nil, nil); err != nil {
		return err
	}
	s.client.SetToken("")
	return nil
}

func (s *SessionService) open(ctx context.Context, path, password string) (*SessionToken, error) {
	var tok SessionToken
	if err := s.client.doRequest(ctx, "POST", path, passwordRequest{Password: password}, &tok); err != nil {
		return nil, err
	}
	if tok.Token != "" {
		s.client.SetToken(tok.Token)
	}
	return &tok, nil
}
