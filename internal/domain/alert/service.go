package alert

import "context"

// Service defines the interface for alert rules and notifications
type Service interface {
	CreateRule(ctx context.Context, in RuleInput) (*Rule, error)
	UpdateRule(ctx context.Context, id string, in RuleInput) (*Rule, error)
	DeleteRule(ctx context.Context, id string) error
	ListRules(ctx context.Context) ([]*Rule, error)

	// Check evaluates enabled balance rules against the current snapshots
	// and returns the notifications it created.
	Check(ctx context.Context) ([]*Notification, error)

	ListNotifications(ctx context.Context, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int64, error)
}
