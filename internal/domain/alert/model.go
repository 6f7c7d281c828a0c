package alert

import (
	"fmt"
	"strconv"
	"time"
)

// Rule types
const (
	TypeBalance = "balance"
	// TypeUsage rules are stored but never evaluated
	TypeUsage = "usage"
)

// Notification levels
const (
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Operator compares a balance against a threshold
type Operator string

const (
	OpLT  Operator = "lt"
	OpLTE Operator = "lte"
	OpGT  Operator = "gt"
	OpGTE Operator = "gte"
)

// Valid reports whether o is one of the four known operators
func (o Operator) Valid() bool {
	switch o {
	case OpLT, OpLTE, OpGT, OpGTE:
		return true
	}
	return false
}

// Compare applies o to value and threshold
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case OpLT:
		return value < threshold
	case OpLTE:
		return value <= threshold
	case OpGT:
		return value > threshold
	case OpGTE:
		return value >= threshold
	}
	return false
}

// Text is the human wording used in notification messages
func (o Operator) Text() string {
	switch o {
	case OpLT:
		return "below"
	case OpLTE:
		return "at or below"
	case OpGT:
		return "above"
	case OpGTE:
		return "at or above"
	}
	return string(o)
}

// Rule is a threshold alert bound to one account
type Rule struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Type      string    `json:"type"`
	Threshold float64   `json:"threshold"`
	Operator  Operator  `json:"operator"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is an in-app record raised by a rule
type Notification struct {
	ID          string    `json:"id"`
	RuleID      string    `json:"rule_id"`
	AccountID   string    `json:"account_id"`
	Message     string    `json:"message"`
	Level       string    `json:"level"`
	TriggeredAt time.Time `json:"triggered_at"`
	Read        bool      `json:"read"`
}

// Evaluate checks a balance rule. It returns the message and level when the rule fires.
func Evaluate(rule *Rule, balance float64, currency string) (message, level string, fired bool) {
	if !rule.Enabled || rule.Type != TypeBalance {
		return "", "", false
	}
	if !rule.Operator.Compare(balance, rule.Threshold) {
		return "", "", false
	}

	message = fmt.Sprintf("account balance %s %s %s %s",
		formatAmount(balance), currency, rule.Operator.Text(), formatAmount(rule.Threshold))

	level = LevelWarning
	if balance < rule.Threshold {
		level = LevelCritical
	}
	return message, level, true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RuleInput is the payload for creating or replacing a rule
type RuleInput struct {
	AccountID string   `json:"account_id" validate:"required"`
	Type      string   `json:"type" validate:"required,oneof=balance usage"`
	Threshold float64  `json:"threshold"`
	Operator  Operator `json:"operator" validate:"required,oneof=lt lte gt gte"`
	Enabled   *bool    `json:"enabled,omitempty"`
}
