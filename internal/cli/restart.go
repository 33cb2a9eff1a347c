package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/status"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// restartCmd restarts one service on one host and re-checks it
var restartCmd = &cobra.Command{
	Use:   "restart <host-code> <service>",
	Short: "Restart a service on a host",
	Long: `Restart a registered service on a registered host, then check it again.

The restart uses 'service mysqld restart' for the database service and
'sudo systemctl restart <service>' for everything else. The result of the
restart command itself is ignored: the follow-up check decides success.

Examples:
  svcmon restart web nginx
  svcmon restart db mysql`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: completeHostAndService,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitWith(restartCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1]))
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

// restartCommand remediates service on the host with hostCode. It returns
// 1 when the service is still not available afterwards.
func restartCommand(ctx context.Context, out io.Writer, hostCode, service string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := loadApp()
	if err != nil {
		return 0, err
	}

	h, ok := a.reg.FindHost(hostCode)
	if !ok {
		return 0, hostNotFoundError(a.reg, hostCode)
	}
	if !a.reg.HasService(service) {
		services := a.reg.Services()
		suggestion := "Registered services: " + util.JoinOrNone(services)
		if similar := util.SuggestSimilar(service, services, 3); len(similar) > 0 {
			suggestion = fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", "))
		}
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Service '%s' isn't registered", service),
			suggestion)
	}

	var spinner *ui.Spinner
	if term.IsTerminal(int(os.Stderr.Fd())) && !verbose {
		spinner = ui.NewSpinner(fmt.Sprintf("Restarting %s on %s", service, h.Hostname))
		spinner.Start()
	}

	entry := a.remediator(a.probeLogger(os.Stderr)).Remediate(ctx, h, service)

	if spinner != nil {
		if entry.State == status.Available {
			spinner.Success()
		} else {
			spinner.Fail()
		}
	}

	detail := entry.Error
	if detail == "" {
		detail = entry.Output
	}
	fmt.Fprint(out, ui.RenderCheckTable([]ui.CheckRow{{
		Host:    h.Code,
		Target:  h.Target(),
		Service: service,
		State:   entry.State.String(),
		Detail:  firstLine(detail),
	}}))

	if entry.State != status.Available {
		return 1, nil
	}
	return 0, nil
}

// completeHostAndService completes host codes, then service names.
func completeHostAndService(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := loadApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var candidates []string
	switch len(args) {
	case 0:
		seen := make(map[string]bool)
		for _, h := range a.reg.Hosts() {
			if !seen[h.Code] {
				seen[h.Code] = true
				candidates = append(candidates, h.Code)
			}
		}
	case 1:
		candidates = a.reg.Services()
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			matches = append(matches, c)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
