package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/metrics"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) account.Repository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, provider, public_key_enc, private_key_enc, region, enabled, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	defer observe("insert", "accounts", time.Now())

	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Provider, a.PublicKey, a.PrivateKey, a.Region, a.Enabled,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create account", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	defer observe("select", "accounts", time.Now())

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundCause("Account", account.ErrNotFound)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get account", err)
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	defer observe("update", "accounts", time.Now())

	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET name = $1, public_key_enc = $2, private_key_enc = $3, region = $4, enabled = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		a.Name, a.PublicKey, a.PrivateKey, a.Region, a.Enabled, toMillis(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update account", err)
	}
	return requireAffected(result, "Account", account.ErrNotFound)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", "accounts", time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete account", err)
	}
	return requireAffected(result, "Account", account.ErrNotFound)
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
}

func (r *AccountRepository) ListEnabled(ctx context.Context) ([]*account.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE enabled = $1 ORDER BY created_at, id`, true)
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...interface{}) ([]*account.Account, error) {
	defer observe("select", "accounts", time.Now())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list accounts", err)
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list accounts", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var createdAt, updatedAt int64
	if err := row.Scan(
		&a.ID, &a.Name, &a.Provider, &a.PublicKey, &a.PrivateKey, &a.Region, &a.Enabled,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}

func requireAffected(result sql.Result, resource string, sentinel error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get rows affected", err)
	}
	if n == 0 {
		return errors.NotFoundCause(resource, sentinel)
	}
	return nil
}

func observe(operation, table string, start time.Time) {
	metrics.RecordDBQuery(operation, table, time.Since(start))
}
