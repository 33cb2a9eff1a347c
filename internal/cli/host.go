package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/host"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/pkg/sshutil"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// HostAddOptions holds options for the host add command.
type HostAddOptions struct {
	Code     string
	Hostname string
	Username string
	Password string
	Probe    bool // Test the connection before saving
}

var hostAddOpts HostAddOptions

// isInteractive reports whether prompts can be shown. Tests override it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// hostCmd groups host registry commands
var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Manage registered hosts",
}

var hostAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a host",
	Long: `Register a host to monitor. Missing fields are prompted for when
running in a terminal; the password prompt is masked.

Hosts are stored with their password in the hosts file. Codes don't have
to be unique, but 'restart' and 'check --host' pick the first match.

Examples:
  svcmon host add
  svcmon host add --code web --hostname 10.0.0.5 --user ops --probe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostAdd(cmd.Context(), cmd.OutOrStdout(), hostAddOpts)
	},
}

var hostListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered hosts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostList(cmd.OutOrStdout())
	},
}

func init() {
	hostAddCmd.Flags().StringVar(&hostAddOpts.Code, "code", "", "short label for the host")
	hostAddCmd.Flags().StringVar(&hostAddOpts.Hostname, "hostname", "", "address or ~/.ssh/config alias")
	hostAddCmd.Flags().StringVar(&hostAddOpts.Username, "user", "", "SSH username")
	hostAddCmd.Flags().StringVar(&hostAddOpts.Password, "password", "", "SSH password (prompted when omitted)")
	hostAddCmd.Flags().BoolVar(&hostAddOpts.Probe, "probe", false, "test the connection before saving")

	hostCmd.AddCommand(hostAddCmd)
	hostCmd.AddCommand(hostListCmd)
	rootCmd.AddCommand(hostCmd)
}

// hostAdd registers a host and persists the registry.
func hostAdd(ctx context.Context, out io.Writer, opts HostAddOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	if missingHostFields(opts) {
		if !isInteractive() {
			return errors.New(errors.ErrConfig,
				"Missing host details",
				"Pass --code, --hostname and --user (and --password) when not running in a terminal.")
		}
		cancelled, err := promptHost(&opts)
		if err != nil {
			return err
		}
		if cancelled {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	h := registry.Host{
		Code:     strings.TrimSpace(opts.Code),
		Hostname: strings.TrimSpace(opts.Hostname),
		Username: strings.TrimSpace(opts.Username),
		Password: opts.Password,
	}
	if err := validateHost(h); err != nil {
		return err
	}

	if opts.Probe {
		keep, err := testConnectionForAdd(ctx, out, a.connector, h)
		if err != nil {
			return err
		}
		if !keep {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if _, exists := a.reg.FindHost(h.Code); exists {
		ui.PrintWarning(fmt.Sprintf("Another host already uses code '%s'; commands that take a code will pick the first one", h.Code))
	}

	a.reg.AddHost(h)
	if err := a.reg.Persist(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Added host '%s' (%s)\n", ui.SuccessStyle().Render(ui.SymbolSuccess), h.Code, h.Target())
	return nil
}

func missingHostFields(opts HostAddOptions) bool {
	return opts.Code == "" || opts.Hostname == "" || opts.Username == "" || opts.Password == ""
}

func validateHost(h registry.Host) error {
	switch {
	case h.Code == "":
		return errors.New(errors.ErrConfig, "Host code can't be empty", "Pass --code, e.g. --code web.")
	case h.Hostname == "":
		return errors.New(errors.ErrConfig, "Hostname can't be empty", "Pass --hostname, e.g. --hostname 10.0.0.5.")
	case strings.ContainsAny(h.Hostname, " \t@"):
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a hostname", h.Hostname),
			"Put the username in --user rather than in the hostname.")
	}
	return nil
}

// promptHost fills in missing fields with a huh form. Hostnames from
// ~/.ssh/config are offered when the hostname is missing.
func promptHost(opts *HostAddOptions) (cancelled bool, err error) {
	var fields []huh.Field

	if opts.Code == "" {
		fields = append(fields, huh.NewInput().
			Title("Host code").
			Description("Short label shown in the dashboard, e.g. web or db").
			Validate(requireValue("code")).
			Value(&opts.Code))
	}

	if opts.Hostname == "" {
		known, _ := sshutil.KnownHosts()
		if len(known) > 0 {
			const other = "__other__"
			choice := ""
			options := make([]huh.Option[string], 0, len(known)+1)
			for _, k := range known {
				options = append(options, huh.NewOption(k.Alias+" "+lipgloss.NewStyle().Faint(true).Render(k.Description()), k.Alias))
			}
			options = append(options, huh.NewOption("Enter a hostname", other))

			form := huh.NewForm(huh.NewGroup(
				huh.NewSelect[string]().
					Title("Pick a host from ~/.ssh/config").
					Options(options...).
					Value(&choice),
			))
			if err := form.Run(); err != nil {
				return formCancelled(err)
			}
			if choice != other {
				opts.Hostname = choice
				for _, k := range known {
					if k.Alias == choice && opts.Username == "" {
						opts.Username = k.User
					}
				}
			}
		}
	}

	if opts.Hostname == "" {
		fields = append(fields, huh.NewInput().
			Title("Hostname").
			Description("IP address, DNS name or ~/.ssh/config alias").
			Validate(requireValue("hostname")).
			Value(&opts.Hostname))
	}
	if opts.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Validate(requireValue("username")).
			Value(&opts.Username))
	}
	if opts.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			Description("Stored in the hosts file. Leave empty to use keys or ssh-agent.").
			EchoMode(huh.EchoModePassword).
			Value(&opts.Password))
	}

	if len(fields) == 0 {
		return false, nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return formCancelled(err)
	}
	return false, nil
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// formCancelled maps a user abort to cancelled=true.
func formCancelled(err error) (bool, error) {
	if stderrors.Is(err, huh.ErrUserAborted) {
		return true, nil
	}
	return false, errors.WrapWithCode(err, errors.ErrConfig,
		"Couldn't get your input",
		"Try again, or pass the values as flags.")
}

// testConnectionForAdd probes h. On failure the user may still save it;
// without a terminal the failure is returned.
func testConnectionForAdd(ctx context.Context, out io.Writer, connector host.Connector, h registry.Host) (bool, error) {
	spinner := ui.NewSpinnerTo(out, "Testing connection to "+h.Target())
	spinner.Start()

	result := connector.ProbeAll(ctx, []registry.Host{h})[0]
	if result.Success {
		spinner.Finish(ui.SpinnerSuccess, result.Latency.Round(1e6).String())
		return true, nil
	}
	spinner.Fail()

	fmt.Fprintf(out, "\n%s Connection to '%s' failed: %s\n\n", ui.ErrorStyle().Render(ui.SymbolFail), h.Hostname, result.Error)

	if !isInteractive() {
		return false, result.Error
	}

	keep := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Save this host anyway?").
			Description("It will show as unreachable until the connection works").
			Value(&keep),
	))
	if err := form.Run(); err != nil {
		cancelled, ferr := formCancelled(err)
		if cancelled {
			return false, nil
		}
		return false, ferr
	}
	return keep, nil
}

// hostList prints the registered hosts in registration order.
func hostList(out io.Writer) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	hosts := a.reg.Hosts()
	if len(hosts) == 0 {
		fmt.Fprintln(out, "No hosts registered.")
		fmt.Fprintln(out, "\nAdd one with: svcmon host add")
		return nil
	}

	rows := make([][]string, len(hosts))
	for i, h := range hosts {
		auth := "key/agent"
		if h.Password != "" {
			auth = "password"
		}
		rows[i] = []string{h.Code, h.Hostname, h.Username, auth}
	}

	fmt.Fprintln(out, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Code", Width: 12},
		{Title: "Hostname", Width: 28},
		{Title: "User", Width: 14},
		{Title: "Auth", Width: 10},
	}, rows))
	fmt.Fprintln(out, ui.MutedStyle().Render("Hosts file: "+a.reg.Paths().Hosts))
	return nil
}
