package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/svcmon/internal/config"
	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for svcmon.

Examples:
  # Bash
  svcmon completion bash > /etc/bash_completion.d/svcmon

  # Zsh
  svcmon completion zsh > "${fpath[1]}/_svcmon"

  # Fish
  svcmon completion fish > ~/.config/fish/completions/svcmon.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

var (
	configInitPath  string
	configInitForce bool
)

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the svcmon config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a commented config file with every setting at its default.

Without --path the file goes to ~/.config/svcmon/config.yaml.

Examples:
  svcmon config init
  svcmon config init --path ./svcmon.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitPath
		if path == "" {
			path = config.GlobalPath()
		}
		if path == "" {
			return errors.New(errors.ErrConfig,
				"Couldn't work out where to put the config",
				"Pass --path explicitly.")
		}
		path = config.ExpandTilde(path)
		if err := config.WriteDefault(path, configInitForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config and registry files are in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "config:   (none, using defaults)")
		} else {
			fmt.Fprintf(out, "config:   %s\n", path)
		}
		paths := config.RegistryPaths(cfg, path)
		fmt.Fprintf(out, "hosts:    %s\n", paths.Hosts)
		fmt.Fprintf(out, "services: %s\n", paths.Services)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "where to write the config file")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// exitWith exits with code when it is non-zero; errors go back to cobra.
func exitWith(code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
