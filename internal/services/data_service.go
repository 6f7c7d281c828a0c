package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/metrics"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/secrets"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// CredentialSource decrypts an account's stored key pair
type CredentialSource interface {
	Credentials(ctx context.Context, acc *account.Account) (account.Credentials, error)
}

// lockSharer is a credential source that also evicts account state and
// must be serialized with refreshes of the same account
type lockSharer interface {
	sharedLocks() *accountLocks
}

// DataService drives the per-account refresh pipeline and owns the latest
// snapshot of every account.
//
// Refreshes of one account are serialized; different accounts run concurrently.
type DataService struct {
	accounts    account.Repository
	credentials CredentialSource
	registry    *providers.Registry
	snapshots   snapshot.Store
	partitions  snapshot.PartitionCache
	logger      *logger.Logger
	locks       *accountLocks
	now         func() time.Time

	mu          sync.RWMutex
	lastUpdated time.Time
}

// NewDataService creates a new data service
func NewDataService(
	accounts account.Repository,
	credentials CredentialSource,
	registry *providers.Registry,
	snapshots snapshot.Store,
	partitions snapshot.PartitionCache,
	log *logger.Logger,
) *DataService {
	locks := newAccountLocks()
	if ls, ok := credentials.(lockSharer); ok {
		locks = ls.sharedLocks()
	}

	return &DataService{
		accounts:    accounts,
		credentials: credentials,
		registry:    registry,
		snapshots:   snapshots,
		partitions:  partitions,
		logger:      log.Component("data"),
		locks:       locks,
		now:         time.Now,
	}
}

// RefreshAll runs the full pipeline for every enabled account concurrently.
// One account failing never affects the others; their outcome is in the report.
func (s *DataService) RefreshAll(ctx context.Context) (*RefreshReport, error) {
	accounts, err := s.accounts.ListEnabled(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to list accounts for refresh")
		return nil, err
	}
	return s.refreshMany(ctx, accounts, false), nil
}

// RefreshAccount re-reads only the balance of one account and patches it into
// the existing snapshot.
func (s *DataService) RefreshAccount(ctx context.Context, id string) (*snapshot.Balance, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.Enabled {
		return nil, errors.BadRequest("Account is disabled")
	}

	unlock, err := s.lockAccount(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	start := time.Now()
	adapter, target, err := s.prepare(ctx, acc)
	if err != nil {
		metrics.RecordRefresh(RefreshFailed, time.Since(start))
		return nil, err
	}

	bal, err := adapter.Balance(ctx, target)
	if err != nil {
		metrics.RecordRefresh(RefreshFailed, time.Since(start))
		s.logger.With("account_id", acc.ID).WithError(err).Warn("Balance refresh failed")
		return nil, errors.ProviderAPIError(acc.Provider, err)
	}
	if bal.UpdatedAt.IsZero() {
		bal.UpdatedAt = s.now()
	}

	next := &snapshot.Snapshot{AccountID: acc.ID}
	if prev, ok := s.snapshots.Get(acc.ID); ok {
		cp := *prev
		next = &cp
	}
	next.Balance = bal
	next.UpdatedAt = s.now()
	s.snapshots.Put(next)

	metrics.RecordRefresh(RefreshOK, time.Since(start))
	return bal, nil
}

// RefreshRegionCache re-resolves every region, ignoring the partition cache,
// then repopulates it. An empty accountID covers all enabled accounts.
func (s *DataService) RefreshRegionCache(ctx context.Context, accountID string) (*RefreshReport, error) {
	if accountID == "" {
		accounts, err := s.accounts.ListEnabled(ctx)
		if err != nil {
			return nil, err
		}
		return s.refreshMany(ctx, accounts, true), nil
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !acc.Enabled {
		return nil, errors.BadRequest("Account is disabled")
	}

	started := s.now()
	res := s.refresh(ctx, acc, true)
	return &RefreshReport{StartedAt: started, FinishedAt: s.now(), Results: []RefreshResult{res}}, nil
}

// Snapshot returns the latest snapshot of an account
func (s *DataService) Snapshot(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return nil, err
	}
	snap, ok := s.snapshots.Get(id)
	if !ok {
		return nil, errors.NotFound("Snapshot")
	}
	return snap, nil
}

// Dashboard lists every account with its snapshot and the total balance
func (s *DataService) Dashboard(ctx context.Context) (*Dashboard, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Accounts: make([]DashboardEntry, 0, len(accounts)),
		Currency: snapshot.CurrencyCNY,
	}
	for _, acc := range accounts {
		entry := DashboardEntry{Account: acc}
		if snap, ok := s.snapshots.Get(acc.ID); ok {
			entry.Snapshot = snap
			if snap.Balance != nil {
				d.TotalBalance += snap.Balance.Amount
			}
		}
		d.Accounts = append(d.Accounts, entry)
	}

	if ts, ok := s.LastUpdated(); ok {
		d.LastUpdated = &ts
	}
	return d, nil
}

// LastUpdated is when the last full refresh settled
func (s *DataService) LastUpdated() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated, !s.lastUpdated.IsZero()
}

func (s *DataService) refreshMany(ctx context.Context, accounts []*account.Account, resolve bool) *RefreshReport {
	report := &RefreshReport{
		StartedAt: s.now(),
		Results:   make([]RefreshResult, len(accounts)),
	}

	var g errgroup.Group
	for i, acc := range accounts {
		g.Go(func() error {
			report.Results[i] = s.refresh(ctx, acc, resolve)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = s.now()

	s.mu.Lock()
	s.lastUpdated = report.FinishedAt
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"accounts": len(accounts),
		"failed":   report.Failed(),
		"resolve":  resolve,
		"duration": report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info("Refresh completed")

	return report
}

func (s *DataService) refresh(ctx context.Context, acc *account.Account, resolve bool) RefreshResult {
	start := time.Now()
	res := RefreshResult{AccountID: acc.ID, AccountName: acc.Name, Status: RefreshOK}

	snap, err := s.collect(ctx, acc, resolve)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = RefreshFailed
		res.Error = err.Error()
		s.logger.WithFields(map[string]interface{}{
			"account_id": acc.ID,
			"account":    acc.Name,
		}).ErrorWithErr(err, "Account refresh failed")
	} else {
		res.ValidRegions = snap.ValidRegions
		res.Instances = len(snap.Instances)
	}

	metrics.RecordRefresh(res.Status, res.Duration)
	return res
}

// collect is the full pipeline for one account. A balance failure returns
// before anything is written, leaving the previous snapshot in place.
func (s *DataService) collect(ctx context.Context, acc *account.Account, resolve bool) (*snapshot.Snapshot, error) {
	unlock, err := s.lockAccount(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	adapter, target, err := s.prepare(ctx, acc)
	if err != nil {
		return nil, err
	}

	var regions []string
	if !resolve {
		regions, _ = s.partitions.Get(acc.ID)
	}

	var (
		balance     *snapshot.Balance
		projects    []snapshot.Project
		coll        *snapshot.Collection
		balanceErr  error
		projectsErr error
		collectErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		balance, balanceErr = adapter.Balance(ctx, target)
		return nil
	})
	g.Go(func() error {
		projects, projectsErr = adapter.Projects(ctx, target)
		return nil
	})
	g.Go(func() error {
		coll, collectErr = adapter.Collect(ctx, target, regions)
		return nil
	})
	_ = g.Wait()

	if balanceErr != nil {
		return nil, fmt.Errorf("fetch balance: %w", balanceErr)
	}
	if collectErr != nil {
		return nil, fmt.Errorf("collect resources: %w", collectErr)
	}

	prev, hasPrev := s.snapshots.Get(acc.ID)
	if projectsErr != nil {
		s.logger.With("account_id", acc.ID).WithError(projectsErr).Warn("Project list unavailable, keeping previous")
		projects = nil
		if hasPrev {
			projects = prev.Projects
		}
	}

	s.partitions.Set(acc.ID, coll.ValidRegions)
	metrics.SetValidRegions(acc.ID, len(coll.ValidRegions))

	now := s.now()
	if balance.UpdatedAt.IsZero() {
		balance.UpdatedAt = now
	}

	snap := &snapshot.Snapshot{
		AccountID:    acc.ID,
		Balance:      balance,
		Projects:     orEmpty(projects),
		Instances:    orEmpty(coll.Instances),
		Images:       orEmpty(coll.Images),
		EIPs:         orEmpty(coll.EIPs),
		ValidRegions: orEmpty(coll.ValidRegions),
		UpdatedAt:    now,
	}
	s.snapshots.Put(snap)

	s.logger.WithFields(map[string]interface{}{
		"account_id":    acc.ID,
		"valid_regions": len(snap.ValidRegions),
		"instances":     len(snap.Instances),
		"volumes":       snap.VolumeCount(),
		"images":        len(snap.Images),
		"eips":          len(snap.EIPs),
	}).Debug("Snapshot replaced")

	return snap, nil
}

// lockAccount serializes work on one account and confirms it was not
// deleted while waiting for the lock
func (s *DataService) lockAccount(ctx context.Context, id string) (func(), error) {
	unlock := s.locks.lock(id)
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		unlock()
		return nil, err
	}
	return unlock, nil
}

// prepare resolves the adapter and decrypts credentials for one account
func (s *DataService) prepare(ctx context.Context, acc *account.Account) (providers.Adapter, providers.Target, error) {
	adapter, err := s.registry.Get(acc.Provider)
	if err != nil {
		return nil, providers.Target{}, errors.BadRequest(err.Error())
	}

	creds, err := s.credentials.Credentials(ctx, acc)
	if err != nil {
		if errors.Is(err, secrets.ErrDecrypt) {
			return nil, providers.Target{}, errors.CredentialError(err)
		}
		return nil, providers.Target{}, err
	}

	return adapter, providers.Target{AccountID: acc.ID, AccountName: acc.Name, Credentials: creds}, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
