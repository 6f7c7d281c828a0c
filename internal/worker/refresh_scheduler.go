package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/services"
)

// Refresher runs a full refresh of every enabled account
type Refresher interface {
	RefreshAll(ctx context.Context) (*services.RefreshReport, error)
}

// AlertChecker evaluates alert rules against the latest snapshots
type AlertChecker interface {
	Check(ctx context.Context) ([]*alert.Notification, error)
}

// RefreshScheduler triggers full refreshes on a cron schedule and checks
// alerts after each one. A tick that fires while the previous run is still
// going is skipped.
type RefreshScheduler struct {
	refresher   Refresher
	alerts      AlertChecker
	schedule    string
	checkAlerts bool
	logger      *logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewRefreshScheduler creates a new refresh scheduler
func NewRefreshScheduler(refresher Refresher, alerts AlertChecker, schedule string, checkAlerts bool, log *logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		refresher:   refresher,
		alerts:      alerts,
		schedule:    schedule,
		checkAlerts: checkAlerts,
		logger:      log.Component("scheduler"),
	}
}

// Start schedules the refresh job. Jobs run with ctx until Stop is called.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	cl := cronLogger{log: s.logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.cron = c
	s.running = true

	s.logger.WithFields(map[string]interface{}{
		"schedule":     s.schedule,
		"check_alerts": s.checkAlerts,
	}).Info("Refresh scheduler started")

	return nil
}

// Stop halts the schedule and waits for a running job to finish
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Refresh scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunOnce performs one refresh followed by an alert check
func (s *RefreshScheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	report, err := s.refresher.RefreshAll(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Scheduled refresh failed")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"accounts": len(report.Results),
		"failed":   report.Failed(),
		"duration": time.Since(start).String(),
	}).Info("Scheduled refresh finished")

	if !s.checkAlerts || s.alerts == nil {
		return
	}

	fired, err := s.alerts.Check(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Alert check failed")
		return
	}
	if len(fired) > 0 {
		s.logger.With("notifications", len(fired)).Info("Alerts triggered")
	}
}

// cronLogger routes cron's own logging through the application logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).ErrorWithErr(err, msg)
}

func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
