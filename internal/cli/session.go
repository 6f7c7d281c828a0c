package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Master password and session commands",
	}

	cmd.AddCommand(newSessionSetupCmd())
	cmd.AddCommand(newSessionUnlockCmd())
	cmd.AddCommand(newSessionLockCmd())
	cmd.AddCommand(newSessionStatusCmd())

	return cmd
}

func newSessionSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Set the master password on a new server",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := promptPassword("Master password: ")
			confirm := promptPassword("Confirm master password: ")
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			tok, err := apiClient.Session().Setup(context.Background(), password)
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}
			if err := saveToken(tok); err != nil {
				return err
			}

			fmt.Fprintln(out, "Master password set. Session unlocked.")
			return nil
		},
	}
}

func newSessionUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the server with the master password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("MXCLOUD_PASSWORD")
			if password == "" {
				password = promptPassword("Master password: ")
			}

			tok, err := apiClient.Session().Unlock(context.Background(), password)
			if err != nil {
				return fmt.Errorf("unlock failed: %w", err)
			}
			if err := saveToken(tok); err != nil {
				return err
			}

			fmt.Fprintf(out, "Unlocked until %s\n", tok.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newSessionLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the server and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Session().Lock(context.Background()); err != nil {
				return fmt.Errorf("lock failed: %w", err)
			}

			viper.Set("session.token", "")
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			fmt.Fprintln(out, "Session locked")
			return nil
		},
	}
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and whether it is set up and unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			health, err := apiClient.Health(ctx)
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}
			database := "connected"
			if ready, err := apiClient.Ready(ctx); err != nil {
				database = "unavailable"
			} else if ready.Database != "" {
				database = ready.Database
			}
			st, err := apiClient.Session().Status(ctx)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(map[string]interface{}{"health": health, "database": database, "session": st})
			}

			lastRefresh := health.LastRefresh
			if lastRefresh == "" {
				lastRefresh = "never"
			}
			fmt.Fprintf(out, "Server:       %s\n", formatStatus(health.Status))
			fmt.Fprintf(out, "Database:     %s\n", database)
			fmt.Fprintf(out, "Last refresh: %s\n", lastRefresh)
			fmt.Fprintf(out, "Configured:   %t\n", st.Configured)
			fmt.Fprintf(out, "Unlocked:     %t\n", st.Unlocked)
			return nil
		},
	}
}

func saveToken(tok *client.SessionToken) error {
	viper.Set("session.token", tok.Token)
	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
