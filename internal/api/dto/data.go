package dto

import (
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/services"
)

// RefreshResponse is a refresh report, optionally followed by an alert check
type RefreshResponse struct {
	Report    *services.RefreshReport `json:"report"`
	Triggered int                     `json:"alerts_triggered"`
}

// DashboardEntryDTO is one account row of the dashboard
type DashboardEntryDTO struct {
	Account      AccountDTO `json:"account"`
	Balance      *float64   `json:"balance,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	Instances    int        `json:"instances"`
	Volumes      int        `json:"volumes"`
	Images       int        `json:"images"`
	EIPs         int        `json:"eips"`
	Projects     int        `json:"projects"`
	ValidRegions []string   `json:"valid_regions"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// DashboardDTO is the aggregated view across accounts
type DashboardDTO struct {
	Accounts     []DashboardEntryDTO `json:"accounts"`
	TotalBalance float64             `json:"total_balance"`
	Currency     string              `json:"currency"`
	LastUpdated  *time.Time          `json:"last_updated,omitempty"`
}

// FromDashboard summarizes a dashboard into counts per account
func FromDashboard(d *services.Dashboard) DashboardDTO {
	out := DashboardDTO{
		Accounts:     make([]DashboardEntryDTO, 0, len(d.Accounts)),
		TotalBalance: d.TotalBalance,
		Currency:     d.Currency,
		LastUpdated:  d.LastUpdated,
	}

	for _, e := range d.Accounts {
		row := DashboardEntryDTO{Account: FromAccount(e.Account), ValidRegions: []string{}}
		if s := e.Snapshot; s != nil {
			if s.Balance != nil {
				amount := s.Balance.Amount
				row.Balance = &amount
				row.Currency = s.Balance.Currency
			}
			row.Instances = len(s.Instances)
			row.Volumes = s.VolumeCount()
			row.Images = len(s.Images)
			row.EIPs = len(s.EIPs)
			row.Projects = len(s.Projects)
			if s.ValidRegions != nil {
				row.ValidRegions = s.ValidRegions
			}
			updated := s.UpdatedAt
			row.UpdatedAt = &updated
		}
		out.Accounts = append(out.Accounts, row)
	}
	return out
}
