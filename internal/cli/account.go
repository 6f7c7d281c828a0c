package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage provider accounts",
	}

	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	cmd.AddCommand(newAccountToggleCmd("enable", "Include an account in refreshes", true))
	cmd.AddCommand(newAccountToggleCmd("disable", "Exclude an account from refreshes", false))

	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := apiClient.Accounts().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(accounts)
			}

			t := newTable("ID", "NAME", "PROVIDER", "REGION", "STATUS")
			for _, a := range accounts {
				t.AppendRow([]interface{}{a.ID, truncate(a.Name, 40), a.Provider, a.Region, formatStatus(enabledText(a.Enabled))})
			}
			t.Render()
			return nil
		},
	}
}

func newAccountAddCmd() *cobra.Command {
	var name, provider, region, publicKey string
	var validate bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account; the private key is prompted for",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = promptInput("Name: ")
			}
			if publicKey == "" {
				publicKey = promptInput("Public key: ")
			}
			privateKey := promptPassword("Private key: ")

			acc, err := apiClient.Accounts().Create(context.Background(), client.CreateAccountRequest{
				Name:       name,
				Provider:   provider,
				PublicKey:  publicKey,
				PrivateKey: privateKey,
				Region:     region,
			}, validate)
			if err != nil {
				return fmt.Errorf("failed to add account: %w", err)
			}

			fmt.Fprintf(out, "Account %s added (%s)\n", acc.Name, acc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&provider, "provider", "ucloud", "provider")
	cmd.Flags().StringVar(&region, "region", "", "default region")
	cmd.Flags().StringVar(&publicKey, "public-key", "", "public key")
	cmd.Flags().BoolVar(&validate, "validate", true, "check the keys against the provider first")

	return cmd
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an account with its cached data and rules",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Accounts().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove account: %w", err)
			}
			fmt.Fprintf(out, "Account %s removed\n", args[0])
			return nil
		},
	}
}

func newAccountToggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := apiClient.Accounts().SetEnabled(context.Background(), args[0], enabled)
			if err != nil {
				return fmt.Errorf("failed to %s account: %w", use, err)
			}
			fmt.Fprintf(out, "Account %s %s\n", acc.Name, enabledText(acc.Enabled))
			return nil
		},
	}
}
