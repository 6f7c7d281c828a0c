package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/mxcloud/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "mxcloud",
	Short: "mxcloud CLI - multi-account cloud balance and resource dashboard",
	Long: `mxcloud CLI talks to an mxcloud server to manage provider accounts,
refresh balances and resources across regions, and track balance alerts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "session" {
			return initClient()
		}
		return initAuthenticatedClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return withHint(rootCmd.Execute())
}

// withHint appends the next step for API errors a user can act on
func withHint(err error) error {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return err
	}

	switch {
	case apiErr.IsLocked():
		return fmt.Errorf("%w\nThe server is locked. Run 'mxcloud session unlock'", err)
	case apiErr.IsUnauthorized():
		return fmt.Errorf("%w\nThe session expired or was replaced. Run 'mxcloud session unlock'", err)
	case apiErr.IsCredentialError():
		return fmt.Errorf("%w\nStored keys cannot be decrypted with the current master password. Re-add the account", err)
	case apiErr.IsProviderError():
		return fmt.Errorf("%w\nThe cloud provider rejected the call. Check the account keys and try again", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.mxcloud/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newAlertCmd())
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mxcloud"), nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(dir, 0700)
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MXCLOUD")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
		Token:   viper.GetString("session.token"),
	})
	return nil
}

func initAuthenticatedClient() error {
	if err := initClient(); err != nil {
		return err
	}

	if apiClient.GetToken() == "" {
		return fmt.Errorf("no session. Run 'mxcloud session unlock' first")
	}
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
