package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/status"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Host string // Limit to one host code
	JSON bool
}

var checkOpts CheckOptions

// checkCmd refreshes every host once and prints the results
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every service once and print the results",
	Long: `Refresh every registered host once, print the host × service results,
and exit. The exit status is 1 when any service is not available, which
makes check usable from cron or CI.

Examples:
  svcmon check
  svcmon check --host web
  svcmon check --json | jq '.data.hosts[].services'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := checkCommand(cmd.Context(), cmd.OutOrStdout(), checkOpts)
		if err != nil {
			if checkOpts.JSON {
				_ = WriteJSONFromError(cmd.OutOrStdout(), err)
				os.Exit(1)
			}
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkOpts.Host, "host", "", "only check the host with this code")
	checkCmd.Flags().BoolVar(&checkOpts.JSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(checkCmd)
}

// CheckReport is the JSON shape of check output.
type CheckReport struct {
	Hosts   []HostReport `json:"hosts"`
	Failing int          `json:"failing"`
}

// HostReport is one host's results.
type HostReport struct {
	Code     string          `json:"code"`
	Hostname string          `json:"hostname"`
	Username string          `json:"username"`
	State    string          `json:"state"`
	Error    string          `json:"error,omitempty"`
	Services []ServiceReport `json:"services"`
}

// ServiceReport is one service's result on a host.
type ServiceReport struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// checkCommand refreshes the selected hosts and writes the report to out.
// It returns 1 when any service is not available.
func checkCommand(ctx context.Context, out io.Writer, opts CheckOptions) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := loadApp()
	if err != nil {
		return 0, err
	}

	hosts, err := selectHosts(a.reg, opts.Host)
	if err != nil {
		return 0, err
	}
	services := a.reg.Services()
	if len(services) == 0 {
		return 0, errors.New(errors.ErrConfig,
			"No services registered",
			"Add one with 'svcmon service add <name>'.")
	}

	var spinner *ui.Spinner
	if !opts.JSON && term.IsTerminal(int(os.Stderr.Fd())) && !verbose {
		spinner = ui.NewSpinner(fmt.Sprintf("Checking %d %s on %d %s",
			len(services), util.Pluralize(len(services), "service", "services"),
			len(hosts), util.Pluralize(len(hosts), "host", "hosts")))
		spinner.Start()
	}

	orch := a.orchestrator(a.probeLogger(os.Stderr))
	for _, h := range hosts {
		orch.RefreshHostAsync(ctx, h)
	}
	orch.Wait()

	report := buildReport(a.store, hosts, services)

	if spinner != nil {
		if report.Failing == 0 {
			spinner.Success()
		} else {
			spinner.Finish(ui.SpinnerFailed, fmt.Sprintf("%d not available", report.Failing))
		}
	}

	if opts.JSON {
		if err := WriteJSONResult(out, report.Failing == 0, report); err != nil {
			return 0, err
		}
	} else {
		fmt.Fprint(out, ui.RenderCheckTable(checkRows(report)))
		fmt.Fprintln(out, summaryLine(report, len(hosts)*len(services)))
	}

	if report.Failing > 0 {
		return 1, nil
	}
	return 0, nil
}

// selectHosts returns every host, or the hosts matching code.
func selectHosts(reg *registry.Registry, code string) ([]registry.Host, error) {
	all := reg.Hosts()
	if len(all) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No hosts registered",
			"Add a host with 'svcmon host add' first.")
	}
	if code == "" {
		return all, nil
	}

	var matched []registry.Host
	for _, h := range all {
		if h.Code == code {
			matched = append(matched, h)
		}
	}
	if len(matched) == 0 {
		return nil, hostNotFoundError(reg, code)
	}
	return matched, nil
}

// hostNotFoundError names close matches among registered host codes.
func hostNotFoundError(reg *registry.Registry, code string) error {
	var codes []string
	seen := make(map[string]bool)
	for _, h := range reg.Hosts() {
		if !seen[h.Code] {
			seen[h.Code] = true
			codes = append(codes, h.Code)
		}
	}

	suggestion := "Registered hosts: " + util.JoinOrNone(codes)
	if similar := util.SuggestSimilar(code, codes, 3); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", "))
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Host '%s' not found", code),
		suggestion)
}

func buildReport(store *status.Store, hosts []registry.Host, services []string) CheckReport {
	report := CheckReport{Hosts: make([]HostReport, 0, len(hosts))}
	for _, h := range hosts {
		hostEntry := store.HostState(h.Key())
		hr := HostReport{
			Code:     h.Code,
			Hostname: h.Hostname,
			Username: h.Username,
			State:    hostEntry.State.String(),
			Error:    hostEntry.Error,
			Services: make([]ServiceReport, 0, len(services)),
		}
		for _, svc := range services {
			e := store.Get(h.Key(), svc)
			hr.Services = append(hr.Services, ServiceReport{
				Name:   svc,
				State:  e.State.String(),
				Output: e.Output,
				Error:  e.Error,
			})
			if e.State != status.Available {
				report.Failing++
			}
		}
		report.Hosts = append(report.Hosts, hr)
	}
	return report
}

func checkRows(report CheckReport) []ui.CheckRow {
	var rows []ui.CheckRow
	for _, hr := range report.Hosts {
		target := hr.Hostname
		if hr.Username != "" {
			target = hr.Username + "@" + hr.Hostname
		}
		for _, s := range hr.Services {
			state := s.State
			if hr.State == status.Unreachable.String() {
				state = status.Unreachable.String()
			}
			detail := s.Error
			if detail == "" {
				detail = s.Output
			}
			rows = append(rows, ui.CheckRow{
				Host:    hr.Code,
				Target:  target,
				Service: s.Name,
				State:   state,
				Detail:  firstLine(detail),
			})
		}
	}
	return rows
}

func summaryLine(report CheckReport, total int) string {
	if report.Failing == 0 {
		return ui.SuccessStyle().Render(fmt.Sprintf("%s All %d %s available", ui.SymbolSuccess,
			total, util.Pluralize(total, "service", "services")))
	}
	return ui.ErrorStyle().Render(fmt.Sprintf("%s %d of %d %s not available", ui.SymbolFail,
		report.Failing, total, util.Pluralize(total, "service", "services")))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
