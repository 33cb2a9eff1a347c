package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/ui"
	"github.com/rileyhilliard/svcmon/internal/util"
	"github.com/spf13/cobra"
)

// serviceCmd groups service registry commands
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage monitored services",
}

var serviceAddCmd = &cobra.Command{
	Use:   "add [name...]",
	Short: "Add services to check on every host",
	Long: `Add one or more services to the monitored set. Names already
registered are skipped. The configured database service (mysql by
default) is checked with its own status probe; everything else is
treated as a systemd unit.

Examples:
  svcmon service add nginx
  svcmon service add nginx mysql redis`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceAdd(cmd.OutOrStdout(), args)
	},
}

var serviceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List monitored services",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceList(cmd.OutOrStdout())
	},
}

func init() {
	serviceCmd.AddCommand(serviceAddCmd)
	serviceCmd.AddCommand(serviceListCmd)
	rootCmd.AddCommand(serviceCmd)
}

// serviceAdd registers names, skipping duplicates, and persists the registry.
func serviceAdd(out io.Writer, names []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		if !isInteractive() {
			return errors.New(errors.ErrConfig,
				"No service names given",
				"Usage: svcmon service add <name> [name...]")
		}
		var input string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Service name").
				Description("Separate several names with spaces").
				Validate(requireValue("service name")).
				Value(&input),
		))
		if err := form.Run(); err != nil {
			cancelled, ferr := formCancelled(err)
			if cancelled {
				fmt.Fprintln(out, "Cancelled.")
			}
			return ferr
		}
		names = strings.Fields(input)
	}

	valid, err := cleanServiceNames(names)
	if err != nil {
		return err
	}

	var added, skipped []string
	for _, name := range valid {
		if a.reg.AddService(name) {
			added = append(added, name)
		} else {
			skipped = append(skipped, name)
		}
	}

	if len(added) > 0 {
		if err := a.reg.Persist(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Added %s: %s\n",
			ui.SuccessStyle().Render(ui.SymbolSuccess),
			util.Pluralize(len(added), "service", "services"),
			strings.Join(added, ", "))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(out, "%s Already registered: %s\n",
			ui.MutedStyle().Render(ui.SymbolSkipped), strings.Join(skipped, ", "))
	}
	return nil
}

// cleanServiceNames trims names and drops blanks. One invalid name rejects
// the whole batch so a failed add never leaves the registry half-updated.
func cleanServiceNames(names []string) ([]string, error) {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, " \t'\"") {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a valid service name", name),
				"Service names can't contain spaces or quotes.")
		}
		valid = append(valid, name)
	}
	return valid, nil
}

// serviceList prints the monitored services in registration order.
func serviceList(out io.Writer) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	services := a.reg.Services()
	if len(services) == 0 {
		fmt.Fprintln(out, "No services registered.")
		fmt.Fprintln(out, "\nAdd some with: svcmon service add <name>")
		return nil
	}

	rows := make([][]string, len(services))
	for i, s := range services {
		rows[i] = []string{s, a.checker.Classifier.KindFor(s).String()}
	}
	fmt.Fprintln(out, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Service", Width: 24},
		{Title: "Kind", Width: 10},
	}, rows))
	fmt.Fprintln(out, ui.MutedStyle().Render("Services file: "+a.reg.Paths().Services))
	return nil
}
