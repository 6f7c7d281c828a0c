package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/pratik-mahalle/mxcloud/internal/cache"
	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
	"github.com/pratik-mahalle/mxcloud/internal/testutil"
)

type accountFixture struct {
	svc        *AccountService
	repo       *testutil.MockAccountRepository
	rules      *testutil.MockRuleRepository
	adapter    *testutil.MockAdapter
	snapshots  *cache.SnapshotStore
	partitions *cache.PartitionCache
}

func newAccountFixture(t *testing.T, session PassphraseSource) *accountFixture {
	t.Helper()
	partitions, err := cache.NewPartitionCache(8)
	if err != nil {
		t.Fatalf("NewPartitionCache() error = %v", err)
	}
	f := &accountFixture{
		repo:       testutil.NewMockAccountRepository(),
		rules:      testutil.NewMockRuleRepository(),
		adapter:    testutil.NewMockAdapter(),
		snapshots:  cache.NewSnapshotStore(),
		partitions: partitions,
	}
	f.svc = NewAccountService(f.repo, f.rules, providers.NewRegistry(f.adapter), session, f.snapshots, f.partitions, testutil.NewTestLogger())
	return f
}

func TestAccountService_CreateEncryptsCredentials(t *testing.T) {
	f := newAccountFixture(t, staticSession{testPassphrase})
	ctx := context.Background()

	acc, err := f.svc.Create(ctx, account.CreateInput{
		Name:       "  prod  ",
		Provider:   account.ProviderUCloud,
		PublicKey:  "ucloud-pub",
		PrivateKey: "ucloud-priv",
	}, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if acc.ID == "" || acc.Name != "prod" || !acc.Enabled {
		t.Errorf("Create() = %+v", acc)
	}

	stored := f.repo.Accounts[acc.ID]
	if stored.PublicKey == "ucloud-pub" || stored.PrivateKey == "ucloud-priv" {
		t.Fatal("credentials stored in plaintext")
	}

	creds, err := f.svc.Credentials(ctx, stored)
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	if creds.PublicKey != "ucloud-pub" || creds.PrivateKey != "ucloud-priv" {
		t.Errorf("Credentials() did not round trip")
	}
	if len(f.adapter.BalanceCalls) != 0 {
		t.Error("Create() without validate should not call the provider")
	}
}

func TestAccountService_CreateValidation(t *testing.T) {
	disabled := false

	tests := []struct {
		name     string
		session  PassphraseSource
		in       account.CreateInput
		validate bool
		balance  func(providers.Target) (*snapshot.Balance, error)
		wantCode string
	}{
		{
			name:     "unknown provider",
			session:  staticSession{testPassphrase},
			in:       account.CreateInput{Name: "x", Provider: "aliyun", PublicKey: "p", PrivateKey: "k"},
			wantCode: errors.ErrCodeBadRequest,
		},
		{
			name:     "locked session",
			session:  staticSession{},
			in:       account.CreateInput{Name: "x", Provider: account.ProviderUCloud, PublicKey: "p", PrivateKey: "k"},
			wantCode: errors.ErrCodeLocked,
		},
		{
			name:     "provider rejects credentials",
			session:  staticSession{testPassphrase},
			in:       account.CreateInput{Name: "x", Provider: account.ProviderUCloud, PublicKey: "p", PrivateKey: "k"},
			validate: true,
			balance: func(providers.Target) (*snapshot.Balance, error) {
				return nil, stderrors.New("RetCode 171")
			},
			wantCode: errors.ErrCodeProviderAuth,
		},
		{
			name:     "validated and disabled",
			session:  staticSession{testPassphrase},
			in:       account.CreateInput{Name: "x", Provider: account.ProviderUCloud, PublicKey: "p", PrivateKey: "k", Enabled: &disabled},
			validate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture(t, tt.session)
			f.adapter.BalanceFunc = tt.balance

			acc, err := f.svc.Create(context.Background(), tt.in, tt.validate)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				if acc.Enabled {
					t.Error("Create() ignored Enabled=false")
				}
				if len(f.adapter.SeenPublicKeys) != 1 || f.adapter.SeenPublicKeys[0] != "p" {
					t.Errorf("validation used keys %v", f.adapter.SeenPublicKeys)
				}
				return
			}

			appErr, ok := errors.As(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Fatalf("Create() error = %v, want code %s", err, tt.wantCode)
			}
			if len(f.repo.Accounts) != 0 {
				t.Error("failed Create() persisted an account")
			}
		})
	}
}

func TestAccountService_UpdateReplacesOneKey(t *testing.T) {
	f := newAccountFixture(t, staticSession{testPassphrase})
	ctx := context.Background()

	acc, err := f.svc.Create(ctx, account.CreateInput{
		Name: "prod", Provider: account.ProviderUCloud, PublicKey: "pub-1", PrivateKey: "priv-1",
	}, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newPriv := "priv-2"
	newName := "production"
	updated, err := f.svc.Update(ctx, acc.ID, account.UpdateInput{Name: &newName, PrivateKey: &newPriv}, true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "production" {
		t.Errorf("Name = %q", updated.Name)
	}

	creds, err := f.svc.Credentials(ctx, f.repo.Accounts[acc.ID])
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	if creds.PublicKey != "pub-1" || creds.PrivateKey != "priv-2" {
		t.Error("Update() did not keep the untouched key")
	}
}

func TestAccountService_DeleteDropsCachedData(t *testing.T) {
	f := newAccountFixture(t, staticSession{testPassphrase})
	ctx := context.Background()

	acc, _ := f.svc.Create(ctx, account.CreateInput{
		Name: "prod", Provider: account.ProviderUCloud, PublicKey: "p", PrivateKey: "k",
	}, false)

	f.snapshots.Put(&snapshot.Snapshot{AccountID: acc.ID})
	f.partitions.Set(acc.ID, []string{"cn-bj2"})
	_ = f.rules.Create(ctx, &alert.Rule{ID: "r1", AccountID: acc.ID})
	_ = f.rules.Create(ctx, &alert.Rule{ID: "r2", AccountID: "other"})

	if err := f.svc.Delete(ctx, acc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := f.snapshots.Get(acc.ID); ok {
		t.Error("snapshot survived Delete()")
	}
	if _, ok := f.partitions.Get(acc.ID); ok {
		t.Error("partition cache entry survived Delete()")
	}
	if len(f.rules.Rules) != 1 {
		t.Errorf("rules after Delete() = %d, want 1", len(f.rules.Rules))
	}

	if err := f.svc.Delete(ctx, acc.ID); !stderrors.Is(err, account.ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestAccountService_SetEnabled(t *testing.T) {
	f := newAccountFixture(t, staticSession{testPassphrase})
	ctx := context.Background()

	acc, _ := f.svc.Create(ctx, account.CreateInput{
		Name: "prod", Provider: account.ProviderUCloud, PublicKey: "p", PrivateKey: "k",
	}, false)

	got, err := f.svc.SetEnabled(ctx, acc.ID, false)
	if err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}
	if got.Enabled || f.repo.Accounts[acc.ID].Enabled {
		t.Error("SetEnabled(false) not persisted")
	}
}
