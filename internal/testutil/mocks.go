package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	mu          sync.Mutex
	Accounts    map[string]*account.Account
	CreateError error
	GetError    error
	UpdateError error
	ListError   error
}

func NewMockAccountRepository(accounts ...*account.Account) *MockAccountRepository {
	m := &MockAccountRepository{Accounts: make(map[string]*account.Account)}
	for _, a := range accounts {
		m.Accounts[a.ID] = a
	}
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := *a
	m.Accounts[a.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.NotFoundCause("Account", account.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Accounts[a.ID]; !ok {
		return errors.NotFoundCause("Account", account.ErrNotFound)
	}
	cp := *a
	m.Accounts[a.ID] = &cp
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Accounts[id]; !ok {
		return errors.NotFoundCause("Account", account.ErrNotFound)
	}
	delete(m.Accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	return m.list(false)
}

func (m *MockAccountRepository) ListEnabled(ctx context.Context) ([]*account.Account, error) {
	return m.list(true)
}

func (m *MockAccountRepository) list(enabledOnly bool) ([]*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := []*account.Account{}
	for _, a := range m.Accounts {
		if enabledOnly && !a.Enabled {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockRuleRepository is a mock implementation of alert.RuleRepository
type MockRuleRepository struct {
	mu    sync.Mutex
	Rules map[string]*alert.Rule
}

func NewMockRuleRepository(rules ...*alert.Rule) *MockRuleRepository {
	m := &MockRuleRepository{Rules: make(map[string]*alert.Rule)}
	for _, r := range rules {
		m.Rules[r.ID] = r
	}
	return m
}

func (m *MockRuleRepository) Create(ctx context.Context, r *alert.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.Rules[r.ID] = &cp
	return nil
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id string) (*alert.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Rules[id]
	if !ok {
		return nil, errors.NotFoundCause("Alert rule", alert.ErrRuleNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m *MockRuleRepository) Update(ctx context.Context, r *alert.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Rules[r.ID]; !ok {
		return errors.NotFoundCause("Alert rule", alert.ErrRuleNotFound)
	}
	cp := *r
	m.Rules[r.ID] = &cp
	return nil
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Rules[id]; !ok {
		return errors.NotFoundCause("Alert rule", alert.ErrRuleNotFound)
	}
	delete(m.Rules, id)
	return nil
}

func (m *MockRuleRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.Rules {
		if r.AccountID == accountID {
			delete(m.Rules, id)
		}
	}
	return nil
}

func (m *MockRuleRepository) List(ctx context.Context) ([]*alert.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*alert.Rule{}
	for _, r := range m.Rules {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockNotificationRepository is a mock implementation of alert.NotificationRepository.
// Notifications are kept newest first.
type MockNotificationRepository struct {
	mu            sync.Mutex
	Notifications []*alert.Notification
	CreateError   error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *alert.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := *n
	m.Notifications = append([]*alert.Notification{&cp}, m.Notifications...)
	return nil
}

func (m *MockNotificationRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*alert.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*alert.Notification{}
	for _, n := range m.Notifications {
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		all = append(all, &cp)
	}
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *MockNotificationRepository) ExistsUnread(ctx context.Context, ruleID, message string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.Notifications {
		if n.RuleID == ruleID && n.Message == message && !n.Read {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.Notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return errors.NotFoundCause("Notification", alert.ErrNotificationNotFound)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.Notifications {
		n.Read = true
	}
	return nil
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.Notifications {
		if n.ID == id {
			m.Notifications = append(m.Notifications[:i], m.Notifications[i+1:]...)
			return nil
		}
	}
	return errors.NotFoundCause("Notification", alert.ErrNotificationNotFound)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.Notifications {
		if !n.Read {
			c++
		}
	}
	return c, nil
}

func (m *MockNotificationRepository) Trim(ctx context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notifications) > keep {
		m.Notifications = m.Notifications[:keep]
	}
	return nil
}

// MockAdapter is a scriptable providers.Adapter
type MockAdapter struct {
	Provider string

	BalanceFunc  func(t providers.Target) (*snapshot.Balance, error)
	ProjectsFunc func(t providers.Target) ([]snapshot.Project, error)
	CollectFunc  func(t providers.Target, regions []string) (*snapshot.Collection, error)
	RegionsFunc  func(t providers.Target) ([]snapshot.Region, error)

	mu             sync.Mutex
	BalanceCalls   []string
	CollectCalls   []CollectCall
	SeenPublicKeys []string
}

// CollectCall records the regions a Collect call targeted
type CollectCall struct {
	AccountID string
	Regions   []string
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{Provider: account.ProviderUCloud}
}

func (m *MockAdapter) Name() string { return m.Provider }

func (m *MockAdapter) Balance(ctx context.Context, t providers.Target) (*snapshot.Balance, error) {
	m.mu.Lock()
	m.BalanceCalls = append(m.BalanceCalls, t.AccountID)
	m.SeenPublicKeys = append(m.SeenPublicKeys, t.Credentials.PublicKey)
	m.mu.Unlock()

	if m.BalanceFunc != nil {
		return m.BalanceFunc(t)
	}
	return &snapshot.Balance{AccountID: t.AccountID, Amount: 100, Currency: snapshot.CurrencyCNY}, nil
}

func (m *MockAdapter) Projects(ctx context.Context, t providers.Target) ([]snapshot.Project, error) {
	if m.ProjectsFunc != nil {
		return m.ProjectsFunc(t)
	}
	return []snapshot.Project{}, nil
}

func (m *MockAdapter) Regions(ctx context.Context, t providers.Target) ([]snapshot.Region, error) {
	if m.RegionsFunc != nil {
		return m.RegionsFunc(t)
	}
	return []snapshot.Region{}, nil
}

func (m *MockAdapter) Collect(ctx context.Context, t providers.Target, regions []string) (*snapshot.Collection, error) {
	m.mu.Lock()
	m.CollectCalls = append(m.CollectCalls, CollectCall{AccountID: t.AccountID, Regions: regions})
	m.mu.Unlock()

	if m.CollectFunc != nil {
		return m.CollectFunc(t, regions)
	}
	return &snapshot.Collection{}, nil
}

func (m *MockAdapter) ValidateCredentials(ctx context.Context, t providers.Target) error {
	_, err := m.Balance(ctx, t)
	return err
}

// BalanceCallCount counts Balance calls for one account
func (m *MockAdapter) BalanceCallCount(accountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range m.BalanceCalls {
		if id == accountID {
			n++
		}
	}
	return n
}

// CollectCallsFor returns the Collect calls made for one account
func (m *MockAdapter) CollectCallsFor(accountID string) []CollectCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []CollectCall
	for _, c := range m.CollectCalls {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out
}
