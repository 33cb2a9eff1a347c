package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/internal/util"
	"github.com/rileyhilliard/svcmon/pkg/sshutil"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
	verbose bool
)

// rootCmd is the base command. Without a subcommand it opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "svcmon",
	Short: "Watch and restart services across SSH hosts",
	Long: `svcmon checks a set of services on every registered host over SSH,
shows the results as a live host × service grid, and restarts services
that stopped working.

Hosts and services live in two JSON files next to the config
(hosts.json and services.json by default).

Examples:
  svcmon host add --code web --hostname 10.0.0.5 --user ops
  svcmon service add nginx mysql
  svcmon              # open the dashboard
  svcmon check --json # one-shot check for scripts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		sshutil.WarningHandler = ui.PrintWarning
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./svcmon.yaml or ~/.config/svcmon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print probe log lines")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer sshutil.CloseAgent()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if isUnknownCommandError(err) {
			fmt.Fprintln(os.Stderr, err)
			if name := extractUnknownCommand(err); name != "" {
				if hints := util.SuggestSimilar(name, commandNames(), 3); len(hints) > 0 {
					fmt.Fprintf(os.Stderr, "\nDid you mean: %s?\n", strings.Join(hints, ", "))
				}
			}
			sshutil.CloseAgent()
			os.Exit(2)
		}
		printError(err)
		sshutil.CloseAgent()
		os.Exit(1)
	}
}

// printError writes err to stderr. Structured errors carry their own
// marker and suggestion.
func printError(err error) {
	var svcErr *errors.Error
	if stderrors.As(err, &svcErr) {
		fmt.Fprint(os.Stderr, svcErr.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ui.ErrorStyle().Render(ui.SymbolFail), err)
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "svcmon"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		if !c.Hidden {
			names = append(names, c.Name())
		}
	}
	return names
}
