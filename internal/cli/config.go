package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settable keys and their value checks; the session token is only written by `session unlock`
var configKeys = map[string]func(string) error{
	"server_url": func(v string) error {
		u, err := url.Parse(v)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("server_url must be an http(s) URL")
		}
		return nil
	},
	"output": func(v string) error {
		if !lo.Contains([]string{"table", "json", "yaml"}, v) {
			return fmt.Errorf("output must be one of table, json, yaml")
		}
		return nil
	},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: sortedKeys(configKeys),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			check, ok := configKeys[key]
			if !ok {
				return fmt.Errorf("unknown config key %q (known: %v)", key, sortedKeys(configKeys))
			}
			if err := check(value); err != nil {
				return err
			}

			viper.Set(key, value)
			if err := writeConfig(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(out, "%s: %s\n", args[0], displayValue(args[0], viper.Get(args[0])))
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := viper.AllSettings()
			for _, key := range sortedKeys(settings) {
				fmt.Fprintf(out, "%s: %s\n", key, displayValue(key, settings[key]))
			}
			return nil
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func displayValue(key string, v interface{}) string {
	switch {
	case v == nil:
		return "(not set)"
	case key == "session" || key == "session.token":
		return "(token stored)"
	default:
		return fmt.Sprint(v)
	}
}

// writeConfig saves the config file readable only by the owner; it may hold a session token
func writeConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}
