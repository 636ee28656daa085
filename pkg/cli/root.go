package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portablesource/portablesource/pkg/config"
	"github.com/portablesource/portablesource/pkg/global"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/i18n"
	"github.com/portablesource/portablesource/pkg/manifest"
	"github.com/portablesource/portablesource/pkg/update"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

// EnvLogLevel sets the log level (debug, info, warn, error) when --verbose is not given.
const EnvLogLevel = "PORTABLESOURCE_LOG_LEVEL"

var (
	rootFlag     string
	hardwareFlag hardware.Class
	langFlag     string
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "portablesource",
		Short:   "Install AI applications into a self-contained folder",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			level, err := console.ParseLevel(os.Getenv(EnvLogLevel))
			if err != nil {
				return fmt.Errorf("$%s: %w", EnvLogLevel, err)
			}
			if global.Verbose {
				level = console.DebugLevel
			}
			console.SetLevel(level)
			if err := update.DisplayAndCheckForRelease(); err != nil {
				console.Debugf("%s", err)
			}
			return nil
		},
		// This stops errors being printed because we print them in cmd/portablesource/main.go
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newDetectCommand(),
		newListCommand(),
		newPlanCommand(),
		newInstallCommand(),
		newDoctorCommand(),
		newUpdateFacefusionCommand(),
		newDocsCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	hardwareFlag = ""
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Install root, defaults to $"+config.EnvRoot+" or the existing installation")
	cmd.PersistentFlags().Var(&hardwareFlag, "hardware", "Skip detection and use this hardware class (nvidia, directml, cpu)")
	cmd.PersistentFlags().Lookup("hardware").DefValue = ""
	cmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Interface language (en, ru), defaults to the system language")
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.Overrides{
		Root:     rootFlag,
		Hardware: string(hardwareFlag),
		Language: langFlag,
	})
}

// loadRegistry returns the built-in catalog with the configured extra catalog merged over it.
func loadRegistry(cfg *config.Config) (*manifest.Registry, error) {
	if cfg.Catalog == "" {
		return manifest.Default(), nil
	}
	contents, err := os.ReadFile(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("Failed to read catalog %s: %w", cfg.Catalog, err)
	}
	extra, err := manifest.Load(cfg.Catalog, contents)
	if err != nil {
		return nil, err
	}
	return manifest.Default().Merge(extra), nil
}

// hardwareClass returns the configured class, or detects it.
func hardwareClass(ctx context.Context, cfg *config.Config) hardware.Class {
	if cfg.Hardware != "" {
		console.Debugf("Using hardware class %s from configuration", cfg.Hardware)
		return cfg.Hardware
	}
	return hardware.NewClassifier(hardware.DefaultLister(shell.NewExecRunner())).Classify(ctx)
}

func localizer(cfg *config.Config) *i18n.Localizer {
	return i18n.New(cfg.Language)
}

func prompt(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ":")
}
