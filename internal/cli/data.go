package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

func newRefreshCmd() *cobra.Command {
	var accountID string
	var regions bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh balances and resources",
		Long: `Without flags every enabled account is refreshed in full.
--account alone re-reads one account's balance.
--regions re-resolves regions and rebuilds the region cache, for one account or all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			switch {
			case regions:
				report, err := apiClient.Data().RefreshRegions(ctx, accountID)
				if err != nil {
					return fmt.Errorf("region refresh failed: %w", err)
				}
				return renderReport(report, 0)

			case accountID != "":
				bal, err := apiClient.Data().RefreshAccount(ctx, accountID)
				if err != nil {
					return fmt.Errorf("balance refresh failed: %w", err)
				}
				if getOutputFormat() != "table" {
					return printOutput(bal)
				}
				fmt.Fprintf(out, "Balance: %s\n", formatBalance(&bal.Amount, bal.Currency))
				return nil

			default:
				resp, err := apiClient.Data().RefreshAll(ctx)
				if err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
				return renderReport(resp.Report, resp.Triggered)
			}
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "limit to one account")
	cmd.Flags().BoolVar(&regions, "regions", false, "rebuild the region cache")

	return cmd
}

func renderReport(report *client.RefreshReport, triggered int) error {
	if getOutputFormat() != "table" {
		return printOutput(report)
	}

	t := newTable("ACCOUNT", "STATUS", "REGIONS", "INSTANCES", "DURATION", "ERROR")
	alignRight(t, 4)
	failed := 0
	for _, r := range report.Results {
		if r.Status != "ok" {
			failed++
		}
		t.AppendRow([]interface{}{
			truncate(r.AccountName, 30),
			formatStatus(r.Status),
			strings.Join(r.ValidRegions, ","),
			r.Instances,
			r.Duration.Round(time.Millisecond).String(),
			truncate(r.Error, 60),
		})
	}
	t.Render()

	fmt.Fprintf(out, "%d accounts, %d failed", len(report.Results), failed)
	if triggered > 0 {
		fmt.Fprint(out, color.YellowString(", %d alerts triggered", triggered))
	}
	fmt.Fprintln(out)
	return nil
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <account-id>",
		Short: "Show the latest snapshot of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := apiClient.Data().Snapshot(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get snapshot: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(snap)
			}

			if snap.Balance != nil {
				fmt.Fprintf(out, "Balance:  %s\n", formatBalance(&snap.Balance.Amount, snap.Balance.Currency))
			}
			fmt.Fprintf(out, "Regions:  %s\n", strings.Join(snap.ValidRegions, ", "))
			fmt.Fprintf(out, "Projects: %d\n", len(snap.Projects))
			fmt.Fprintf(out, "Updated:  %s\n\n", formatTime(&snap.UpdatedAt))

			t := newTable("INSTANCE", "NAME", "REGION", "STATE", "CPU", "MEM (MB)", "VOLUMES")
			alignRight(t, 5, 6, 7)
			for _, in := range snap.Instances {
				t.AppendRow([]interface{}{in.UHostID, truncate(in.Name, 30), in.Region, in.State, in.CPU, in.Memory, len(in.Volumes)})
			}
			t.Render()

			fmt.Fprintf(out, "%d images, %d elastic IPs\n", len(snap.Images), len(snap.EIPs))
			return nil
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every account with its balance and resource counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := apiClient.Data().Dashboard(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(d)
			}

			t := newTable("ACCOUNT", "STATUS", "BALANCE", "INSTANCES", "VOLUMES", "IMAGES", "EIPS", "REGIONS", "UPDATED")
			alignRight(t, 3, 4, 5, 6, 7)
			for _, e := range d.Accounts {
				t.AppendRow([]interface{}{
					truncate(e.Account.Name, 30),
					formatStatus(enabledText(e.Account.Enabled)),
					formatBalance(e.Balance, e.Currency),
					e.Instances,
					e.Volumes,
					e.Images,
					e.EIPs,
					len(e.ValidRegions),
					formatTime(e.UpdatedAt),
				})
			}
			t.AppendFooter([]interface{}{"TOTAL", "", formatAmount(d.TotalBalance) + " " + d.Currency})
			t.Render()

			fmt.Fprintf(out, "Last full refresh: %s\n", formatTime(d.LastUpdated))
			return nil
		},
	}
}
