package alert

import (
	"context"
	"errors"
)

var (
	ErrRuleNotFound         = errors.New("alert rule not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// RuleRepository defines the interface for alert rule data access
type RuleRepository interface {
	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id string) (*Rule, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Rule, error)
	// DeleteByAccount removes every rule of an account
	DeleteByAccount(ctx context.Context, accountID string) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// List returns notifications newest first
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	// ExistsUnread reports whether an unread notification with this rule and message exists
	ExistsUnread(ctx context.Context, ruleID, message string) (bool, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int64, error)
	// Trim keeps only the newest keep notifications
	Trim(ctx context.Context, keep int) error
}
