package services

import (
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

// Refresh outcomes per account
const (
	RefreshOK     = "ok"
	RefreshFailed = "failed"
)

// RefreshResult is the outcome of one account's pipeline
type RefreshResult struct {
	AccountID    string        `json:"account_id"`
	AccountName  string        `json:"account_name"`
	Status       string        `json:"status"`
	Error        string        `json:"error,omitempty"`
	ValidRegions []string      `json:"valid_regions,omitempty"`
	Instances    int           `json:"instances"`
	Duration     time.Duration `json:"duration_ns"`
}

// RefreshReport summarizes a full or region-cache refresh
type RefreshReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []RefreshResult `json:"results"`
}

// Failed counts accounts whose pipeline did not complete
func (r *RefreshReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == RefreshFailed {
			n++
		}
	}
	return n
}

// DashboardEntry pairs an account with its latest snapshot, if any
type DashboardEntry struct {
	Account  *account.Account   `json:"account"`
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
}

// Dashboard is the aggregated view across all accounts
type Dashboard struct {
	Accounts     []DashboardEntry `json:"accounts"`
	TotalBalance float64          `json:"total_balance"`
	Currency     string           `json:"currency"`
	LastUpdated  *time.Time       `json:"last_updated,omitempty"`
}
