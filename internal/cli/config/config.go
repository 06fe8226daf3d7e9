// Package config holds the cli commands that inspect and create the
// configuration file
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/plazo/internal/cli"
	"github.com/thenoetrevino/plazo/internal/config"
)

// ConfigCmd returns the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and initialize configuration",
		Long: fmt.Sprintf(`plazo reads config.yaml from $XDG_CONFIG_HOME/plazo (or ~/.config/plazo).
%s points at a different file.

Environment overrides:
  %-18s database file
  %-18s debug, info, warn or error
  %-18s daemon socket
  %-18s set to true to stop publishing change events`,
			config.EnvConfigFile, config.EnvDBPath, config.EnvLogLevel, config.EnvSocketPath, config.EnvNoEvents),
	}

	cmd.AddCommand(showCmd())
	cmd.AddCommand(pathCmd())
	cmd.AddCommand(initCmd())

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			formatter := &cli.OutputFormatter{JSON: jsonOut}

			cfg, err := cli.ConfigFromContext(cmd.Context())
			if err != nil {
				return formatter.Fail(err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configuration file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			formatter := &cli.OutputFormatter{}

			path, err := config.Path()
			if err != nil {
				return formatter.Fail(err)
			}

			if _, err := os.Stat(path); err == nil && !force {
				return formatter.FailWithSuggestion(
					cli.NewCommandError(cli.ExitConflict, fmt.Errorf("%s already exists", path)),
					"Use --force to overwrite it")
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return formatter.Fail(err)
			}

			if err := config.Default().Save(); err != nil {
				return formatter.Fail(fmt.Errorf("failed to write config: %w", err))
			}
			fmt.Printf("✓ Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
