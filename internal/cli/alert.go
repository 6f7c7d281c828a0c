package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage balance alerts",
	}

	cmd.AddCommand(newAlertRulesCmd())
	cmd.AddCommand(newAlertAddRuleCmd())
	cmd.AddCommand(newAlertRemoveRuleCmd())
	cmd.AddCommand(newAlertCheckCmd())
	cmd.AddCommand(newAlertNotificationsCmd())
	cmd.AddCommand(newAlertReadCmd())

	return cmd
}

func newAlertRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List alert rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := apiClient.Alerts().ListRules(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(rules)
			}

			t := newTable("ID", "ACCOUNT", "TYPE", "CONDITION", "STATUS")
			for _, r := range rules {
				t.AppendRow([]interface{}{
					r.ID,
					r.AccountID,
					r.Type,
					r.Operator + " " + strconv.FormatFloat(r.Threshold, 'f', -1, 64),
					formatStatus(enabledText(r.Enabled)),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newAlertAddRuleCmd() *cobra.Command {
	var req client.RuleRequest

	cmd := &cobra.Command{
		Use:   "add-rule",
		Short: "Add a balance threshold rule",
		Example: `  mxcloud alert add-rule --account <id> --operator lt --threshold 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := apiClient.Alerts().CreateRule(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to add rule: %w", err)
			}
			fmt.Fprintf(out, "Rule %s added\n", rule.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "account", "", "account ID")
	cmd.Flags().StringVar(&req.Type, "type", "balance", "rule type: balance or usage")
	cmd.Flags().StringVar(&req.Operator, "operator", "lt", "lt, lte, gt or gte")
	cmd.Flags().Float64Var(&req.Threshold, "threshold", 0, "threshold amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAlertRemoveRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-rule <id>",
		Short: "Remove an alert rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Alerts().DeleteRule(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove rule: %w", err)
			}
			fmt.Fprintf(out, "Rule %s removed\n", args[0])
			return nil
		},
	}
}

func newAlertCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate the rules against current balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := apiClient.Alerts().Check(context.Background())
			if err != nil {
				return fmt.Errorf("alert check failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(res)
			}

			fmt.Fprintf(out, "%d alerts triggered\n", res.Triggered)
			for _, n := range res.Notifications {
				fmt.Fprintf(out, "  %s %s\n", formatLevel(n.Level), n.Message)
			}
			return nil
		},
	}
}

func newAlertNotificationsCmd() *cobra.Command {
	var opts client.NotificationListOptions

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := apiClient.Alerts().Notifications(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list notifications: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(page)
			}

			t := newTable("ID", "LEVEL", "MESSAGE", "TRIGGERED", "READ")
			for _, n := range page.Notifications {
				triggered := n.TriggeredAt
				t.AppendRow([]interface{}{n.ID, formatLevel(n.Level), truncate(n.Message, 60), formatTime(&triggered), n.Read})
			}
			t.Render()
			fmt.Fprintf(out, "Page %d of %d, %d unread, %d total\n", page.Page, page.TotalPages, page.Unread, page.TotalItems)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.UnreadOnly, "unread", false, "only unread notifications")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "page size")

	return cmd
}

func newAlertReadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark a notification, or all of them, read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if all {
				if err := apiClient.Alerts().MarkAllRead(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "All notifications marked read")
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("give a notification ID or --all")
			}

			if err := apiClient.Alerts().MarkRead(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Notification %s marked read\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "mark every notification read")

	return cmd
}
