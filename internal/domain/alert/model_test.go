package alert

import "testing"

func TestOperatorCompare(t *testing.T) {
	tests := []struct {
		op               Operator
		value, threshold float64
		want             bool
	}{
		{OpLT, 99, 100, true},
		{OpLT, 100, 100, false},
		{OpLTE, 100, 100, true},
		{OpLTE, 101, 100, false},
		{OpGT, 101, 100, true},
		{OpGT, 100, 100, false},
		{OpGTE, 100, 100, true},
		{OpGTE, 99, 100, false},
		{Operator("eq"), 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			if got := tt.op.Compare(tt.value, tt.threshold); got != tt.want {
				t.Errorf("%s.Compare(%v, %v) = %v, want %v", tt.op, tt.value, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		rule        Rule
		balance     float64
		wantFired   bool
		wantMessage string
		wantLevel   string
	}{
		{
			name:        "below threshold is critical",
			rule:        Rule{Type: TypeBalance, Operator: OpLT, Threshold: 100, Enabled: true},
			balance:     42.5,
			wantFired:   true,
			wantMessage: "account balance 42.5 CNY below 100",
			wantLevel:   LevelCritical,
		},
		{
			name:        "equal with lte is warning",
			rule:        Rule{Type: TypeBalance, Operator: OpLTE, Threshold: 100, Enabled: true},
			balance:     100,
			wantFired:   true,
			wantMessage: "account balance 100 CNY at or below 100",
			wantLevel:   LevelWarning,
		},
		{
			name:        "above threshold",
			rule:        Rule{Type: TypeBalance, Operator: OpGT, Threshold: 10, Enabled: true},
			balance:     20,
			wantFired:   true,
			wantMessage: "account balance 20 CNY above 10",
			wantLevel:   LevelWarning,
		},
		{
			name:    "not crossed",
			rule:    Rule{Type: TypeBalance, Operator: OpLT, Threshold: 10, Enabled: true},
			balance: 20,
		},
		{
			name:    "disabled rule",
			rule:    Rule{Type: TypeBalance, Operator: OpLT, Threshold: 100, Enabled: false},
			balance: 1,
		},
		{
			name:    "usage rules are skipped",
			rule:    Rule{Type: TypeUsage, Operator: OpLT, Threshold: 100, Enabled: true},
			balance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, level, fired := Evaluate(&tt.rule, tt.balance, "CNY")
			if fired != tt.wantFired {
				t.Fatalf("fired = %v, want %v", fired, tt.wantFired)
			}
			if msg != tt.wantMessage {
				t.Errorf("message = %q, want %q", msg, tt.wantMessage)
			}
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
		})
	}
}
