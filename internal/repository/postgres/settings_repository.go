package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
)

// ErrSettingNotFound is returned by Get for unknown names
var ErrSettingNotFound = stderrors.New("setting not found")

// SettingsRepository is a small name/value store for process-wide settings
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, name string) (string, error) {
	defer observe("select", "settings", time.Now())

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = $1`, name).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", errors.NotFoundCause("Setting", ErrSettingNotFound)
	}
	if err != nil {
		return "", errors.DatabaseError("Failed to get setting", err)
	}
	return value, nil
}

// Set inserts or replaces a setting
func (r *SettingsRepository) Set(ctx context.Context, name, value string) error {
	defer observe("upsert", "settings", time.Now())

	query := `
		INSERT INTO settings (name, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, name, value, toMillis(time.Now())); err != nil {
		return errors.DatabaseError("Failed to save setting", err)
	}
	return nil
}
