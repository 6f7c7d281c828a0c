package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/mxcloud/internal/auth"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/secrets"
)

// ErrLocked is returned while no master password is held in memory
var ErrLocked = stderrors.New("master password is locked")

// masterPasswordSetting names the settings row holding the bcrypt hash
const masterPasswordSetting = "master_password_hash"

// MinPasswordLength is the shortest accepted master password
const MinPasswordLength = 8

// SettingsStore persists process-wide name/value settings
type SettingsStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}

// PassphraseSource hands out the unlocked master password
type PassphraseSource interface {
	Passphrase() (string, error)
}

// SessionStatus describes the lock state
type SessionStatus struct {
	Configured bool `json:"configured"`
	Unlocked   bool `json:"unlocked"`
}

// SessionService owns the master password. The plaintext passphrase only lives
// in memory between Unlock and Lock.
type SessionService struct {
	settings   SettingsStore
	jwtSecret  string
	ttl        time.Duration
	bcryptCost int
	logger     *logger.Logger

	mu         sync.RWMutex
	passphrase string
	sessionID  string
}

// NewSessionService creates a new session service
func NewSessionService(settings SettingsStore, jwtSecret string, ttl time.Duration, bcryptCost int, log *logger.Logger) *SessionService {
	return &SessionService{
		settings:   settings,
		jwtSecret:  jwtSecret,
		ttl:        ttl,
		bcryptCost: bcryptCost,
		logger:     log.Component("session"),
	}
}

// Setup stores the master password hash the first time and unlocks the session
func (s *SessionService) Setup(ctx context.Context, password string) (*auth.SessionToken, error) {
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	configured, err := s.configured(ctx)
	if err != nil {
		return nil, err
	}
	if configured {
		return nil, errors.Conflict("Master password is already set up")
	}

	hash, err := secrets.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash master password", err)
	}
	if err := s.settings.Set(ctx, masterPasswordSetting, hash); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store master password hash")
		return nil, err
	}

	s.logger.Info("Master password configured")
	return s.open(password)
}

// Unlock verifies password and keeps it in memory for decrypting credentials
func (s *SessionService) Unlock(ctx context.Context, password string) (*auth.SessionToken, error) {
	hash, err := s.settings.Get(ctx, masterPasswordSetting)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.BadRequest("Master password has not been set up")
		}
		return nil, err
	}

	if !secrets.CheckPassword(hash, password) {
		s.logger.Warn("Unlock attempt with wrong master password")
		return nil, errors.Unauthorized("Invalid master password")
	}

	return s.open(password)
}

// Lock forgets the passphrase and invalidates every issued token
func (s *SessionService) Lock() {
	s.mu.Lock()
	s.passphrase = ""
	s.sessionID = ""
	s.mu.Unlock()

	s.logger.Info("Session locked")
}

// Status reports whether a master password exists and whether it is unlocked
func (s *SessionService) Status(ctx context.Context) (*SessionStatus, error) {
	configured, err := s.configured(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return &SessionStatus{Configured: configured, Unlocked: s.passphrase != ""}, nil
}

// Passphrase implements PassphraseSource
func (s *SessionService) Passphrase() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.passphrase == "" {
		return "", lockedError()
	}
	return s.passphrase, nil
}

// ValidateToken accepts tokens minted by the current unlock only
func (s *SessionService) ValidateToken(token string) error {
	claims, err := auth.ParseClaims(token, s.jwtSecret)
	if err != nil {
		return errors.Unauthorized("Invalid or expired session token")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessionID == "" {
		return lockedError()
	}
	if claims.SessionID != s.sessionID {
		return errors.Unauthorized("Session token belongs to an ended session")
	}
	return nil
}

func (s *SessionService) open(password string) (*auth.SessionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// each unlock starts a new session; tokens from the previous one stop validating
	s.sessionID = uuid.NewString()
	s.passphrase = password

	tok, err := auth.MintSessionToken(s.sessionID, s.jwtSecret, s.ttl)
	if err != nil {
		return nil, errors.Internal("Failed to issue session token", err)
	}
	return &tok, nil
}

func (s *SessionService) configured(ctx context.Context) (bool, error) {
	_, err := s.settings.Get(ctx, masterPasswordSetting)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func isNotFound(err error) bool {
	appErr, ok := errors.As(err)
	return ok && appErr.Code == errors.ErrCodeNotFound
}

func checkPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.BadRequest("Master password is required")
	}
	if len(password) < MinPasswordLength {
		return errors.BadRequest("Master password must be at least 8 characters")
	}
	return nil
}

func lockedError() error {
	e := errors.Locked("Master password is locked")
	e.Internal = ErrLocked
	return e
}
