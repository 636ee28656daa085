package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/portablesource/portablesource/pkg/doctor"
	"github.com/portablesource/portablesource/pkg/http"
	"github.com/portablesource/portablesource/pkg/util/console"
)

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the install root for common issues",
		Args:  cobra.NoArgs,
		RunE:  doctorCommand,
	}
	cmd.Flags().Bool("offline", false, "Skip the network checks")
	return cmd
}

func doctorCommand(cmd *cobra.Command, args []string) error {
	offline, err := cmd.Flags().GetBool("offline")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	console.Info("Checking for issues with your installation.\n")

	d := doctor.New(cfg, hardwareClass(cmd.Context(), cfg), http.ProvideHTTPClient(10*time.Second))
	if offline {
		d.Endpoints = nil
	}
	report := d.Run(cmd.Context())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s), %s\n", report.Host.Platform, report.Host.PlatformVersion, report.Host.KernelArch, report.Class)
	fmt.Fprintln(out, console.Rule())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
	for _, c := range report.Checks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Status, c.Detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("Some checks failed, reinstall portablesource into %s", cfg.Root)
	}
	return nil
}
