package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/files"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the applications in the catalog",
		RunE:    list,
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
	}

	cmd.Flags().BoolP("quiet", "q", false, "Quiet output, only display names")

	return cmd
}

func list(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if quiet {
		for _, m := range registry.Apps() {
			fmt.Fprintln(out, m.Name)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tINSTALLED\tURL")
	for n, m := range registry.Apps() {
		installed := "-"
		if ok, _ := files.IsDir(cfg.AppDir(m.Name)); ok {
			installed = console.FormatTime(files.ModTime(cfg.AppDir(m.Name)))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n+1, m.Name, installed, m.URL)
	}
	return w.Flush()
}
