package cli

import (
	"context"
	stderrors "errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/monitor"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/pkg/sshutil"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live host × service dashboard",
	Long: `Open an interactive dashboard showing every registered service on
every registered host. All hosts are checked once on start; after that,
refresh a host or all hosts on demand.

Keyboard shortcuts:
  q / Ctrl+C   Quit
  r            Refresh selected host
  R            Refresh all hosts
  Enter / x    Restart selected service
  arrows/hjkl  Move the selection
  PgUp/PgDn    Scroll the log pane
  ?            Show help

Examples:
  svcmon monitor
  svcmon --config ./lab.yaml monitor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// monitorCommand runs the dashboard until the user quits.
func monitorCommand(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'svcmon check' (or 'svcmon check --json') for scripts and pipes.")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	if len(a.reg.Hosts()) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts registered",
			"Add a host with 'svcmon host add' first.")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := monitor.NewLogFeed(256)
	log := logger.WithMinLevel(feed.Logger(), a.cfg.Log.Level)

	// Anything printed to stderr would tear the alt screen.
	sshutil.WarningHandler = func(msg string) { log.Warn("%s", msg) }
	defer func() { sshutil.WarningHandler = ui.PrintWarning }()

	updates, unsubscribe := a.store.Subscribe(64)
	defer unsubscribe()

	orch := a.orchestrator(log)
	model := monitor.NewModel(ctx, a.reg, orch, a.remediator(log), updates, feed.Lines())

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()

	// Stop in-flight probes before the store loses its reader.
	cancel()
	unsubscribe()
	orch.Wait()

	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
