package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/metrics"
)

// AlertService implements alert.Service
type AlertService struct {
	rules         alert.RuleRepository
	notifications alert.NotificationRepository
	accounts      account.Repository
	snapshots     snapshot.Store
	limit         int
	logger        *logger.Logger
	now           func() time.Time
}

// NewAlertService creates a new alert service. At most limit notifications are retained.
func NewAlertService(
	rules alert.RuleRepository,
	notifications alert.NotificationRepository,
	accounts account.Repository,
	snapshots snapshot.Store,
	limit int,
	log *logger.Logger,
) *AlertService {
	return &AlertService{
		rules:         rules,
		notifications: notifications,
		accounts:      accounts,
		snapshots:     snapshots,
		limit:         limit,
		logger:        log.Component("alerts"),
		now:           time.Now,
	}
}

var _ alert.Service = (*AlertService)(nil)

// CreateRule stores a new rule for an existing account
func (s *AlertService) CreateRule(ctx context.Context, in alert.RuleInput) (*alert.Rule, error) {
	if err := s.checkInput(ctx, in); err != nil {
		return nil, err
	}

	r := &alert.Rule{
		ID:        uuid.NewString(),
		AccountID: in.AccountID,
		Type:      in.Type,
		Threshold: in.Threshold,
		Operator:  in.Operator,
		Enabled:   true,
		CreatedAt: s.now().UTC(),
	}
	if in.Enabled != nil {
		r.Enabled = *in.Enabled
	}

	if err := s.rules.Create(ctx, r); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create alert rule")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"rule_id":    r.ID,
		"account_id": r.AccountID,
		"type":       r.Type,
		"operator":   r.Operator,
	}).Info("Alert rule created")

	return r, nil
}

// UpdateRule replaces a rule's settings, keeping its id and creation time
func (s *AlertService) UpdateRule(ctx context.Context, id string, in alert.RuleInput) (*alert.Rule, error) {
	r, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(ctx, in); err != nil {
		return nil, err
	}

	r.AccountID = in.AccountID
	r.Type = in.Type
	r.Threshold = in.Threshold
	r.Operator = in.Operator
	if in.Enabled != nil {
		r.Enabled = *in.Enabled
	}

	if err := s.rules.Update(ctx, r); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update alert rule")
		return nil, err
	}
	return r, nil
}

func (s *AlertService) DeleteRule(ctx context.Context, id string) error {
	return s.rules.Delete(ctx, id)
}

func (s *AlertService) ListRules(ctx context.Context) ([]*alert.Rule, error) {
	return s.rules.List(ctx)
}

// Check evaluates enabled balance rules against the current snapshots.
// A rule whose identical message is still unread does not fire again.
func (s *AlertService) Check(ctx context.Context) ([]*alert.Notification, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, err
	}

	created := []*alert.Notification{}
	for _, r := range rules {
		snap, ok := s.snapshots.Get(r.AccountID)
		if !ok || snap.Balance == nil {
			continue
		}

		msg, level, fired := alert.Evaluate(r, snap.Balance.Amount, snap.Balance.Currency)
		if !fired {
			continue
		}

		exists, err := s.notifications.ExistsUnread(ctx, r.ID, msg)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		n := &alert.Notification{
			ID:          uuid.NewString(),
			RuleID:      r.ID,
			AccountID:   r.AccountID,
			Message:     msg,
			Level:       level,
			TriggeredAt: s.now().UTC(),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.ErrorWithErr(err, "Failed to store notification")
			return created, err
		}

		metrics.RecordAlertTriggered(level)
		s.logger.WithFields(map[string]interface{}{
			"rule_id":    r.ID,
			"account_id": r.AccountID,
			"level":      level,
		}).Info("Alert triggered")

		created = append(created, n)
	}

	if len(created) > 0 {
		if err := s.notifications.Trim(ctx, s.limit); err != nil {
			s.logger.WarnWithErr(err, "Failed to trim notifications")
		}
	}

	return created, nil
}

func (s *AlertService) ListNotifications(ctx context.Context, unreadOnly bool, limit, offset int) ([]*alert.Notification, int64, error) {
	return s.notifications.List(ctx, unreadOnly, limit, offset)
}

func (s *AlertService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}

func (s *AlertService) MarkAllRead(ctx context.Context) error {
	return s.notifications.MarkAllRead(ctx)
}

func (s *AlertService) DeleteNotification(ctx context.Context, id string) error {
	return s.notifications.Delete(ctx, id)
}

func (s *AlertService) UnreadCount(ctx context.Context) (int64, error) {
	return s.notifications.CountUnread(ctx)
}

func (s *AlertService) checkInput(ctx context.Context, in alert.RuleInput) error {
	if !in.Operator.Valid() {
		return errors.BadRequest("Unknown operator: " + string(in.Operator))
	}
	if in.Type != alert.TypeBalance && in.Type != alert.TypeUsage {
		return errors.BadRequest("Unknown rule type: " + in.Type)
	}
	if _, err := s.accounts.GetByID(ctx, in.AccountID); err != nil {
		return err
	}
	return nil
}
