package dto

import (
	"time"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
)

// AccountDTO is an account as exposed by the API. It never carries key material.
type AccountDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	Region    string    `json:"region,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromAccount converts a domain account
func FromAccount(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		Name:      a.Name,
		Provider:  a.Provider,
		Region:    a.Region,
		Enabled:   a.Enabled,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromAccounts converts a list of domain accounts
func FromAccounts(accounts []*account.Account) []AccountDTO {
	out := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		out[i] = FromAccount(a)
	}
	return out
}
