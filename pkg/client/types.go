package client

import "time"

// HealthResponse is the liveness probe reply
type HealthResponse struct {
	Status      string `json:"status"`
	LastRefresh string `json:"last_refresh,omitempty"`
}

// SessionToken is returned by setup and unlock
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatus reports whether a master password exists and is unlocked
type SessionStatus struct {
	Configured bool `json:"configured"`
	Unlocked   bool `json:"unlocked"`
}

// Account is a credentialed provider account. Keys are never returned.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	Region    string    `json:"region,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance is the account's available funds
type Balance struct {
	AccountID string    `json:"account_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is an organizational project of the account
type Project struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	UserCount   int    `json:"user_count"`
}

// Volume is a block storage disk attached to an instance
type Volume struct {
	UDiskID string `json:"udisk_id"`
	Name    string `json:"name,omitempty"`
	Region  string `json:"region"`
	Size    int    `json:"size,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Instance is a compute host
type Instance struct {
	UHostID string   `json:"uhost_id"`
	Name    string   `json:"name,omitempty"`
	Zone    string   `json:"zone,omitempty"`
	Region  string   `json:"region"`
	State   string   `json:"state,omitempty"`
	CPU     int      `json:"cpu,omitempty"`
	Memory  int      `json:"memory,omitempty"`
	OsName  string   `json:"os_name,omitempty"`
	Volumes []Volume `json:"volumes,omitempty"`
}

// Image is a machine image
type Image struct {
	ImageID   string `json:"image_id"`
	ImageName string `json:"image_name,omitempty"`
	Region    string `json:"region"`
	OsName    string `json:"os_name,omitempty"`
}

// EIPAddress is one operator line of an elastic IP
type EIPAddress struct {
	OperatorName string `json:"operator_name,omitempty"`
	IP           string `json:"ip"`
}

// EIP is an elastic IP
type EIP struct {
	EIPID     string       `json:"eip_id"`
	Name      string       `json:"name,omitempty"`
	Region    string       `json:"region"`
	Addresses []EIPAddress `json:"addresses,omitempty"`
	Bandwidth int          `json:"bandwidth,omitempty"`
	Status    string       `json:"status,omitempty"`
}

// Snapshot is the latest refresh result of one account
type Snapshot struct {
	AccountID    string     `json:"account_id"`
	Balance      *Balance   `json:"balance,omitempty"`
	Projects     []Project  `json:"projects"`
	Instances    []Instance `json:"instances"`
	Images       []Image    `json:"images"`
	EIPs         []EIP      `json:"eips"`
	ValidRegions []string   `json:"valid_regions"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RefreshResult is one account's outcome
type RefreshResult struct {
	AccountID    string        `json:"account_id"`
	AccountName  string        `json:"account_name"`
	Status       string        `json:"status"`
	Error        string        `json:"error,omitempty"`
	ValidRegions []string      `json:"valid_regions,omitempty"`
	Instances    int           `json:"instances"`
	Duration     time.Duration `json:"duration_ns"`
}

// RefreshReport summarizes a refresh
type RefreshReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []RefreshResult `json:"results"`
}

// RefreshResponse is a full refresh report plus the alerts it triggered
type RefreshResponse struct {
	Report    *RefreshReport `json:"report"`
	Triggered int            `json:"alerts_triggered"`
}

// DashboardEntry is one account row of the dashboard
type DashboardEntry struct {
	Account      Account    `json:"account"`
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

// Dashboard is the aggregated view across accounts
type Dashboard struct {
	Accounts     []DashboardEntry `json:"accounts"`
	TotalBalance float64          `json:"total_balance"`
	Currency     string           `json:"currency"`
	LastUpdated  *time.Time       `json:"last_updated,omitempty"`
}

// Rule is a balance threshold alert
type Rule struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Type      string    `json:"type"`
	Threshold float64   `json:"threshold"`
	Operator  string    `json:"operator"` // lt, lte, gt, gte
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is an in-app alert record
type Notification struct {
	ID          string    `json:"id"`
	RuleID      string    `json:"rule_id"`
	AccountID   string    `json:"account_id"`
	Message     string    `json:"message"`
	Level       string    `json:"level"`
	TriggeredAt time.Time `json:"triggered_at"`
	Read        bool      `json:"read"`
}

// NotificationPage is one page of notifications
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalItems    int64          `json:"total_items"`
	TotalPages    int            `json:"total_pages"`
	Unread        int64          `json:"unread"`
}

// CheckResult lists notifications created by an alert check
type CheckResult struct {
	Triggered     int            `json:"triggered"`
	Notifications []Notification `json:"notifications"`
}

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int `json:"page,omitempty"`      // Page number (1-based)
	PageSize int `json:"page_size,omitempty"` // Items per page
}
