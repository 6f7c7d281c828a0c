package cli

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// out is where commands write; tests swap it for a buffer
var out io.Writer = os.Stdout

// newTable creates a table with the given headers
func newTable(headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row(headers))
	return t
}

// alignRight right-aligns the given 1-based columns
func alignRight(t table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, len(columns))
	for i, n := range columns {
		configs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight}
	}
	t.SetColumnConfigs(configs)
}

// printOutput prints data in the requested format
func printOutput(data interface{}) error {
	switch getOutputFormat() {
	case "yaml":
		return printYAML(data)
	default:
		return printJSON(data)
	}
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(data interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatBalance colors a balance by how close it is to zero
func formatBalance(amount *float64, currency string) string {
	if amount == nil {
		return color.HiBlackString("-")
	}
	s := formatAmount(*amount) + " " + currency
	switch {
	case *amount <= 0:
		return color.RedString(s)
	case *amount < 100:
		return color.YellowString(s)
	default:
		return s
	}
}

// formatStatus returns a status string with a visual indicator
func formatStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "enabled":
		return color.GreenString("[+] " + status)
	case "failed", "disabled":
		return color.RedString("[-] " + status)
	default:
		return status
	}
}

// formatLevel marks notification levels
func formatLevel(level string) string {
	switch strings.ToLower(level) {
	case "critical":
		return color.New(color.FgRed, color.Bold).Sprint("[!] CRITICAL")
	case "warning":
		return color.YellowString("[*] WARNING")
	default:
		return level
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func enabledText(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
