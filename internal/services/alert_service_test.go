package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/cache"
	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/testutil"
)

func newAlertFixture(limit int) (*AlertService, *testutil.MockRuleRepository, *testutil.MockNotificationRepository, *cache.SnapshotStore) {
	rules := testutil.NewMockRuleRepository()
	notifications := testutil.NewMockNotificationRepository()
	accounts := testutil.NewMockAccountRepository(&account.Account{ID: "acc-1", Enabled: true})
	snapshots := cache.NewSnapshotStore()
	svc := NewAlertService(rules, notifications, accounts, snapshots, limit, testutil.NewTestLogger())
	return svc, rules, notifications, snapshots
}

func putBalance(store *cache.SnapshotStore, accountID string, amount float64) {
	store.Put(&snapshot.Snapshot{
		AccountID: accountID,
		Balance:   &snapshot.Balance{AccountID: accountID, Amount: amount, Currency: snapshot.CurrencyCNY},
	})
}

func TestAlertService_CreateRule(t *testing.T) {
	svc, _, _, _ := newAlertFixture(100)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       alert.RuleInput
		wantCode string
	}{
		{"valid", alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 50, Operator: alert.OpLT}, ""},
		{"usage accepted", alert.RuleInput{AccountID: "acc-1", Type: alert.TypeUsage, Threshold: 50, Operator: alert.OpGT}, ""},
		{"bad operator", alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Operator: "eq"}, errors.ErrCodeBadRequest},
		{"bad type", alert.RuleInput{AccountID: "acc-1", Type: "cpu", Operator: alert.OpLT}, errors.ErrCodeBadRequest},
		{"unknown account", alert.RuleInput{AccountID: "nope", Type: alert.TypeBalance, Operator: alert.OpLT}, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := svc.CreateRule(ctx, tt.in)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CreateRule() error = %v", err)
				}
				if r.ID == "" || !r.Enabled {
					t.Errorf("CreateRule() = %+v", r)
				}
				return
			}
			appErr, ok := errors.As(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("CreateRule() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestAlertService_CheckFiresAndDedupes(t *testing.T) {
	svc, _, notifications, snapshots := newAlertFixture(100)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 50, Operator: alert.OpLT})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	_, _ = svc.CreateRule(ctx, alert.RuleInput{AccountID: "acc-1", Type: alert.TypeUsage, Threshold: 0, Operator: alert.OpGT})

	putBalance(snapshots, "acc-1", 12.5)

	fired, err := svc.Check(ctx)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("Check() fired %d notifications, want 1", len(fired))
	}
	n := fired[0]
	if n.RuleID != rule.ID || n.Level != alert.LevelCritical {
		t.Errorf("notification = %+v", n)
	}
	if n.Message != "account balance 12.5 CNY below 50" {
		t.Errorf("Message = %q", n.Message)
	}

	// identical unread message is suppressed
	fired, _ = svc.Check(ctx)
	if len(fired) != 0 {
		t.Errorf("second Check() fired %d, want 0", len(fired))
	}

	// once read, the same condition fires again
	if err := svc.MarkRead(ctx, n.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	fired, _ = svc.Check(ctx)
	if len(fired) != 1 {
		t.Errorf("Check() after MarkRead fired %d, want 1", len(fired))
	}

	// a changed balance yields a different message
	putBalance(snapshots, "acc-1", 11)
	fired, _ = svc.Check(ctx)
	if len(fired) != 1 {
		t.Errorf("Check() after balance change fired %d, want 1", len(fired))
	}

	count, _ := svc.UnreadCount(ctx)
	if count != 2 {
		t.Errorf("UnreadCount() = %d, want 2", count)
	}
	if len(notifications.Notifications) != 3 {
		t.Errorf("stored notifications = %d, want 3", len(notifications.Notifications))
	}
}

func TestAlertService_CheckSkipsDisabledAndMissingSnapshots(t *testing.T) {
	svc, rules, _, snapshots := newAlertFixture(100)
	ctx := context.Background()

	_ = rules.Create(ctx, &alert.Rule{ID: "off", AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 1000, Operator: alert.OpLT, Enabled: false})
	_ = rules.Create(ctx, &alert.Rule{ID: "nosnap", AccountID: "acc-2", Type: alert.TypeBalance, Threshold: 1000, Operator: alert.OpLT, Enabled: true})
	putBalance(snapshots, "acc-1", 1)
	snapshots.Put(&snapshot.Snapshot{AccountID: "acc-3"})
	_ = rules.Create(ctx, &alert.Rule{ID: "nobalance", AccountID: "acc-3", Type: alert.TypeBalance, Threshold: 1000, Operator: alert.OpLT, Enabled: true})

	fired, err := svc.Check(ctx)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(fired) != 0 {
		t.Errorf("Check() fired %d, want 0", len(fired))
	}
}

func TestAlertService_CheckLevels(t *testing.T) {
	tests := []struct {
		op        alert.Operator
		balance   float64
		wantLevel string
		wantFired bool
	}{
		{alert.OpLTE, 50, alert.LevelWarning, true},
		{alert.OpGT, 80, alert.LevelWarning, true},
		{alert.OpGTE, 10, "", false},
		{alert.OpLT, 49.99, alert.LevelCritical, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%v", tt.op, tt.balance), func(t *testing.T) {
			svc, _, _, snapshots := newAlertFixture(100)
			ctx := context.Background()
			_, _ = svc.CreateRule(ctx, alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 50, Operator: tt.op})
			putBalance(snapshots, "acc-1", tt.balance)

			fired, _ := svc.Check(ctx)
			if (len(fired) == 1) != tt.wantFired {
				t.Fatalf("fired = %d, want %v", len(fired), tt.wantFired)
			}
			if tt.wantFired && fired[0].Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", fired[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestAlertService_CheckTrimsToLimit(t *testing.T) {
	svc, _, notifications, snapshots := newAlertFixture(3)
	ctx := context.Background()

	_, _ = svc.CreateRule(ctx, alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 1000, Operator: alert.OpLT})

	base := time.Now()
	for i := 0; i < 5; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		putBalance(snapshots, "acc-1", float64(i))
		if _, err := svc.Check(ctx); err != nil {
			t.Fatalf("Check() error = %v", err)
		}
	}

	list, total, _ := svc.ListNotifications(ctx, false, 0, 0)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if list[0].Message != "account balance 4 CNY below 1000" {
		t.Errorf("newest = %q", list[0].Message)
	}
	if len(notifications.Notifications) != 3 {
		t.Errorf("stored = %d", len(notifications.Notifications))
	}
}

func TestAlertService_NotificationLifecycle(t *testing.T) {
	svc, _, _, snapshots := newAlertFixture(100)
	ctx := context.Background()

	_, _ = svc.CreateRule(ctx, alert.RuleInput{AccountID: "acc-1", Type: alert.TypeBalance, Threshold: 10, Operator: alert.OpGT})
	putBalance(snapshots, "acc-1", 20)
	fired, _ := svc.Check(ctx)
	if len(fired) != 1 {
		t.Fatalf("Check() fired %d", len(fired))
	}

	if err := svc.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if c, _ := svc.UnreadCount(ctx); c != 0 {
		t.Errorf("UnreadCount() = %d", c)
	}

	if err := svc.DeleteNotification(ctx, fired[0].ID); err != nil {
		t.Fatalf("DeleteNotification() error = %v", err)
	}
	if err := svc.DeleteNotification(ctx, fired[0].ID); !errors.Is(err, alert.ErrNotificationNotFound) {
		t.Errorf("second DeleteNotification() error = %v", err)
	}
}
