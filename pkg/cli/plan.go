package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/portablesource/portablesource/pkg/installer"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <app>",
		Short: "Print the installation plan for an application without installing it",
		Long: `Print the installation plan for an application without installing it.

<app> is a catalog number, an application name or a git URL. Apps that install their own
requirements file include it in the plan once they have been cloned.`,
		Args: cobra.ExactArgs(1),
		RunE: planCommand,
	}
	cmd.Flags().StringP("output", "o", "yaml", "Output format: yaml or json")
	return cmd
}

func planCommand(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if format != "yaml" && format != "json" {
		return fmt.Errorf("Unknown output format %q, use yaml or json", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	m, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}
	hw := hardwareClass(cmd.Context(), cfg)

	appDir := cfg.AppDir(m.Name)
	inst := installer.New(cfg, nil, nil, localizer(cfg))
	p, err := inst.Plan(m, hw, installer.WorkDir(appDir, m), filepath.Join(appDir, installer.VenvDirName))
	if err != nil {
		return err
	}

	var out []byte
	if format == "json" {
		out, err = json.MarshalIndent(p, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(p)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
