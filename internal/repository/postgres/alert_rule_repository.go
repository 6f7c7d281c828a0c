package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
)

type AlertRuleRepository struct {
	db *sql.DB
}

func NewAlertRuleRepository(db *sql.DB) alert.RuleRepository {
	return &AlertRuleRepository{db: db}
}

const ruleColumns = `id, account_id, type, threshold, operator, enabled, created_at`

func (r *AlertRuleRepository) Create(ctx context.Context, rule *alert.Rule) error {
	defer observe("insert", "alert_rules", time.Now())

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO alert_rules (` + ruleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.AccountID, rule.Type, rule.Threshold, string(rule.Operator), rule.Enabled, toMillis(rule.CreatedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create alert rule", err)
	}
	return nil
}

func (r *AlertRuleRepository) GetByID(ctx context.Context, id string) (*alert.Rule, error) {
	defer observe("select", "alert_rules", time.Now())

	query := `SELECT ` + ruleColumns + ` FROM alert_rules WHERE id = $1`
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundCause("Alert rule", alert.ErrRuleNotFound)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert rule", err)
	}
	return rule, nil
}

func (r *AlertRuleRepository) Update(ctx context.Context, rule *alert.Rule) error {
	defer observe("update", "alert_rules", time.Now())

	query := `
		UPDATE alert_rules SET account_id = $1, type = $2, threshold = $3, operator = $4, enabled = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		rule.AccountID, rule.Type, rule.Threshold, string(rule.Operator), rule.Enabled, rule.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update alert rule", err)
	}
	return requireAffected(result, "Alert rule", alert.ErrRuleNotFound)
}

func (r *AlertRuleRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", "alert_rules", time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete alert rule", err)
	}
	return requireAffected(result, "Alert rule", alert.ErrRuleNotFound)
}

func (r *AlertRuleRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	defer observe("delete", "alert_rules", time.Now())

	if _, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE account_id = $1`, accountID); err != nil {
		return errors.DatabaseError("Failed to delete alert rules", err)
	}
	return nil
}

func (r *AlertRuleRepository) List(ctx context.Context) ([]*alert.Rule, error) {
	defer observe("select", "alert_rules", time.Now())

	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM alert_rules ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alert rules", err)
	}
	defer rows.Close()

	rules := []*alert.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert rule", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list alert rules", err)
	}
	return rules, nil
}

func scanRule(row rowScanner) (*alert.Rule, error) {
	var rule alert.Rule
	var op string
	var createdAt int64
	if err := row.Scan(&rule.ID, &rule.AccountID, &rule.Type, &rule.Threshold, &op, &rule.Enabled, &createdAt); err != nil {
		return nil, err
	}
	rule.Operator = alert.Operator(op)
	rule.CreatedAt = fromMillis(createdAt)
	return &rule, nil
}
