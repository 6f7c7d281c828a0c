package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/secrets"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// AccountService implements account.Service
type AccountService struct {
	repo       account.Repository
	rules      alert.RuleRepository
	registry   *providers.Registry
	session    PassphraseSource
	snapshots  snapshot.Store
	partitions snapshot.PartitionCache
	locks      *accountLocks
	logger     *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	repo account.Repository,
	rules alert.RuleRepository,
	registry *providers.Registry,
	session PassphraseSource,
	snapshots snapshot.Store,
	partitions snapshot.PartitionCache,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		repo:       repo,
		rules:      rules,
		registry:   registry,
		session:    session,
		snapshots:  snapshots,
		partitions: partitions,
		locks:      newAccountLocks(),
		logger:     log.Component("accounts"),
	}
}

var _ account.Service = (*AccountService)(nil)

func (s *AccountService) sharedLocks() *accountLocks {
	return s.locks
}

// Create encrypts the credentials and stores a new account
func (s *AccountService) Create(ctx context.Context, in account.CreateInput, validate bool) (*account.Account, error) {
	adapter, err := s.registry.Get(in.Provider)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	creds := account.Credentials{
		PublicKey:  strings.TrimSpace(in.PublicKey),
		PrivateKey: strings.TrimSpace(in.PrivateKey),
	}

	passphrase, err := s.session.Passphrase()
	if err != nil {
		return nil, err
	}

	if validate {
		if err := adapter.ValidateCredentials(ctx, providers.Target{AccountName: in.Name, Credentials: creds}); err != nil {
			s.logger.WithError(err).Warn("Credential validation failed for new account")
			return nil, errors.ProviderAuthError(in.Provider, err)
		}
	}

	acc := &account.Account{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Provider: in.Provider,
		Region:   in.Region,
		Enabled:  true,
	}
	if in.Enabled != nil {
		acc.Enabled = *in.Enabled
	}
	if err := s.seal(acc, creds, passphrase); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, acc); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": acc.ID,
		"provider":   acc.Provider,
	}).Info("Account created")

	return acc, nil
}

// Get retrieves an account by ID
func (s *AccountService) Get(ctx context.Context, id string) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the non-nil fields of in. Replacing one key keeps the other.
func (s *AccountService) Update(ctx context.Context, id string, in account.UpdateInput, validate bool) (*account.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		acc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Region != nil {
		acc.Region = *in.Region
	}
	if in.Enabled != nil {
		acc.Enabled = *in.Enabled
	}

	if in.HasCredentials() {
		creds, err := s.Credentials(ctx, acc)
		if err != nil {
			return nil, err
		}
		if in.PublicKey != nil {
			creds.PublicKey = strings.TrimSpace(*in.PublicKey)
		}
		if in.PrivateKey != nil {
			creds.PrivateKey = strings.TrimSpace(*in.PrivateKey)
		}

		if validate {
			adapter, err := s.registry.Get(acc.Provider)
			if err != nil {
				return nil, errors.BadRequest(err.Error())
			}
			if err := adapter.ValidateCredentials(ctx, providers.Target{AccountID: acc.ID, AccountName: acc.Name, Credentials: creds}); err != nil {
				s.logger.With("account_id", acc.ID).WithError(err).Warn("Credential validation failed")
				return nil, errors.ProviderAuthError(acc.Provider, err)
			}
		}

		passphrase, err := s.session.Passphrase()
		if err != nil {
			return nil, err
		}
		if err := s.seal(acc, creds, passphrase); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, acc); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id":  acc.ID,
		"credentials": in.HasCredentials(),
	}).Info("Account updated")

	return acc, nil
}

// Delete removes the account together with its snapshot, partition cache entry and rules
func (s *AccountService) Delete(ctx context.Context, id string) error {
	// waits for a running refresh so it cannot write the snapshot back after eviction
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.snapshots.Delete(id)
	s.partitions.Delete(id)

	if err := s.rules.DeleteByAccount(ctx, id); err != nil {
		s.logger.With("account_id", id).WithError(err).Warn("Failed to delete alert rules of removed account")
	}

	s.logger.With("account_id", id).Info("Account deleted")
	return nil
}

// List returns every account
func (s *AccountService) List(ctx context.Context) ([]*account.Account, error) {
	return s.repo.List(ctx)
}

// SetEnabled toggles whether refreshes include the account
func (s *AccountService) SetEnabled(ctx context.Context, id string, enabled bool) (*account.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.Enabled == enabled {
		return acc, nil
	}

	acc.Enabled = enabled
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": id,
		"enabled":    enabled,
	}).Info("Account toggled")
	return acc, nil
}

// Credentials decrypts the key pair of acc with the unlocked passphrase
func (s *AccountService) Credentials(ctx context.Context, acc *account.Account) (account.Credentials, error) {
	passphrase, err := s.session.Passphrase()
	if err != nil {
		return account.Credentials{}, err
	}

	pub, err := secrets.Decrypt(acc.PublicKey, passphrase)
	if err != nil {
		return account.Credentials{}, fmt.Errorf("decrypt public key of account %s: %w", acc.ID, err)
	}
	priv, err := secrets.Decrypt(acc.PrivateKey, passphrase)
	if err != nil {
		return account.Credentials{}, fmt.Errorf("decrypt private key of account %s: %w", acc.ID, err)
	}

	return account.Credentials{PublicKey: pub, PrivateKey: priv}, nil
}

func (s *AccountService) seal(acc *account.Account, creds account.Credentials, passphrase string) error {
	pub, err := secrets.Encrypt(creds.PublicKey, passphrase)
	if err != nil {
		return errors.Internal("Failed to encrypt credentials", err)
	}
	priv, err := secrets.Encrypt(creds.PrivateKey, passphrase)
	if err != nil {
		return errors.Internal("Failed to encrypt credentials", err)
	}
	acc.PublicKey = pub
	acc.PrivateKey = priv
	return nil
}
