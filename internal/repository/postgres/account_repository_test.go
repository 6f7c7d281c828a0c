package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/testutil"
)

func TestAccountRepository_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewAccountRepository(db)
	ctx := context.Background()

	acc := &account.Account{
		ID:         "acc-1",
		Name:       "primary",
		Provider:   account.ProviderUCloud,
		PublicKey:  "enc-pub",
		PrivateKey: "enc-priv",
		Region:     "cn-bj2",
		Enabled:    true,
	}
	if err := repo.Create(ctx, acc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if acc.CreatedAt.IsZero() || acc.UpdatedAt.IsZero() {
		t.Error("Create() should set timestamps")
	}

	got, err := repo.GetByID(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "primary" || got.PublicKey != "enc-pub" || got.PrivateKey != "enc-priv" || !got.Enabled {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.CreatedAt.UnixMilli() != acc.CreatedAt.UnixMilli() {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, acc.CreatedAt)
	}

	got.Name = "renamed"
	got.Enabled = false
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	again, _ := repo.GetByID(ctx, "acc-1")
	if again.Name != "renamed" || again.Enabled {
		t.Errorf("Update() not persisted: %+v", again)
	}

	if err := repo.Delete(ctx, "acc-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "acc-1"); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestAccountRepository_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewAccountRepository(db)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"get", func() error { _, err := repo.GetByID(ctx, "missing"); return err }},
		{"update", func() error { return repo.Update(ctx, &account.Account{ID: "missing"}) }},
		{"delete", func() error { return repo.Delete(ctx, "missing") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, account.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestAccountRepository_ListEnabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := NewAccountRepository(db)
	ctx := context.Background()

	for _, a := range []*account.Account{
		{ID: "a", Name: "a", Provider: account.ProviderUCloud, PublicKey: "x", PrivateKey: "y", Enabled: true},
		{ID: "b", Name: "b", Provider: account.ProviderUCloud, PublicKey: "x", PrivateKey: "y", Enabled: false},
		{ID: "c", Name: "c", Provider: account.ProviderUCloud, PublicKey: "x", PrivateKey: "y", Enabled: true},
	} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create(%s) error = %v", a.ID, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() returned %d accounts, want 3", len(all))
	}

	enabled, err := repo.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("ListEnabled() error = %v", err)
	}
	if len(enabled) != 2 {
		t.Fatalf("ListEnabled() returned %d accounts, want 2", len(enabled))
	}
	for _, a := range enabled {
		if !a.Enabled {
			t.Errorf("ListEnabled() returned disabled account %s", a.ID)
		}
	}
}
