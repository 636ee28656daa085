package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/download"
	"github.com/portablesource/portablesource/pkg/http"
	"github.com/portablesource/portablesource/pkg/i18n"
	"github.com/portablesource/portablesource/pkg/installer"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/files"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [app]",
		Short: "Install an application from the catalog or a git repository",
		Long: `Install an application from the catalog or a git repository.

[app] is a catalog number, an application name or a git URL. Without it, the catalog is
shown and you are asked to pick one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: installCommand,
	}
	cmd.Flags().String("requirements", "", "Requirements file of a repository outside the catalog")
	return cmd
}

func installCommand(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := localizer(cfg)

	if !cfg.Installed() && rootFlag == "" && os.Getenv(config.EnvRoot) == "" && console.IsTTY(os.Stdin) {
		cfg, err = askRoot(cfg, l, reader, out)
		if err != nil {
			return err
		}
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	} else {
		for n, m := range registry.Apps() {
			fmt.Fprintf(out, "%d. %s\n", n+1, m.Name)
		}
		ref, err = console.Interactive{Prompt: prompt(l.T("select_repo")), Required: true, In: reader, Out: out}.Read()
		if err != nil {
			return err
		}
	}
	m, err := registry.Resolve(ref)
	if err != nil {
		return err
	}

	requirementsFile, err := cmd.Flags().GetString("requirements")
	if err != nil {
		return err
	}
	if _, lookupErr := registry.Lookup(ref); lookupErr != nil && requirementsFile == "" && len(args) == 0 {
		requirementsFile, err = console.Interactive{
			Prompt:  prompt(l.T("enter_requirements_filename")),
			Default: installer.DefaultRequirementsFile,
			In:      reader,
			Out:     out,
		}.Read()
		if err != nil {
			return err
		}
	}

	executable, err := os.Executable()
	if err != nil {
		return err
	}
	progress := mpb.New(mpb.WithOutput(os.Stderr), mpb.WithAutoRefresh())
	inst := installer.New(cfg, shell.NewExecRunner(), download.New(http.ProvideHTTPClient(0), progress), l)
	inst.Executable = executable
	if requirementsFile != "" {
		inst.RequirementsFile = requirementsFile
	}

	hw := hardwareClass(cmd.Context(), cfg)
	res, err := inst.Install(cmd.Context(), m, hw)
	progress.Wait()
	if err != nil {
		return err
	}
	console.Infof("Start %s with %s", m.Name, res.Launcher)
	return nil
}

// askRoot asks where to install on the first run and reloads the configuration from there.
func askRoot(cfg *config.Config, l *i18n.Localizer, in io.Reader, out io.Writer) (*config.Config, error) {
	answer, err := console.Interactive{Prompt: prompt(l.T("which_path")), Default: cfg.Root, In: in, Out: out}.Read()
	if err != nil {
		return nil, err
	}
	root, err := files.ExpandPath(strings.TrimSpace(answer))
	if err != nil {
		return nil, err
	}
	if root == cfg.Root {
		return cfg, nil
	}
	return config.Load(config.Overrides{Root: root, Hardware: string(hardwareFlag), Language: langFlag})
}
