package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) alert.NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, rule_id, account_id, message, level, triggered_at, is_read`

func (r *NotificationRepository) Create(ctx context.Context, n *alert.Notification) error {
	defer observe("insert", "notifications", time.Now())

	if n.TriggeredAt.IsZero() {
		n.TriggeredAt = time.Now().UTC()
	}

	query := `INSERT INTO notifications (` + notificationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RuleID, n.AccountID, n.Message, n.Level, toMillis(n.TriggeredAt), n.Read,
	)
	if err != nil {
		return errors.DatabaseError("Failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*alert.Notification, int64, error) {
	defer observe("select", "notifications", time.Now())

	where := ""
	args := []interface{}{}
	if unreadOnly {
		where = " WHERE is_read = $1"
		args = append(args, false)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count notifications", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where + ` ORDER BY triggered_at DESC, id DESC`
	if limit > 0 {
		query += placeholderClause(" LIMIT ", len(args)+1)
		args = append(args, limit)
		query += placeholderClause(" OFFSET ", len(args)+1)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list notifications", err)
	}
	defer rows.Close()

	out := []*alert.Notification{}
	for rows.Next() {
		var n alert.Notification
		var triggeredAt int64
		if err := rows.Scan(&n.ID, &n.RuleID, &n.AccountID, &n.Message, &n.Level, &triggeredAt, &n.Read); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan notification", err)
		}
		n.TriggeredAt = fromMillis(triggeredAt)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to list notifications", err)
	}
	return out, total, nil
}

func (r *NotificationRepository) ExistsUnread(ctx context.Context, ruleID, message string) (bool, error) {
	defer observe("select", "notifications", time.Now())

	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE rule_id = $1 AND message = $2 AND is_read = $3`,
		ruleID, message, false,
	).Scan(&n)
	if err != nil {
		return false, errors.DatabaseError("Failed to check notifications", err)
	}
	return n > 0, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	defer observe("update", "notifications", time.Now())

	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = $1 WHERE id = $2`, true, id)
	if err != nil {
		return errors.DatabaseError("Failed to mark notification read", err)
	}
	return requireAffected(result, "Notification", alert.ErrNotificationNotFound)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	defer observe("update", "notifications", time.Now())

	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = $1 WHERE is_read = $2`, true, false); err != nil {
		return errors.DatabaseError("Failed to mark notifications read", err)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	defer observe("delete", "notifications", time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete notification", err)
	}
	return requireAffected(result, "Notification", alert.ErrNotificationNotFound)
}

func (r *NotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	defer observe("select", "notifications", time.Now())

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE is_read = $1`, false).Scan(&n); err != nil {
		return 0, errors.DatabaseError("Failed to count unread notifications", err)
	}
	return n, nil
}

func (r *NotificationRepository) Trim(ctx context.Context, keep int) error {
	defer observe("delete", "notifications", time.Now())

	query := `
		DELETE FROM notifications WHERE id NOT IN (
			SELECT id FROM notifications ORDER BY triggered_at DESC, id DESC LIMIT $1
		)
	`
	if _, err := r.db.ExecContext(ctx, query, keep); err != nil {
		return errors.DatabaseError("Failed to trim notifications", err)
	}
	return nil
}

func placeholderClause(keyword string, n int) string {
	return keyword + "$" + strconv.Itoa(n)
}
