package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portablesource/portablesource/pkg/updater"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

func newUpdateFacefusionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-facefusion",
		Short: "Update a facefusion checkout and start it",
		Long: `Update a facefusion checkout and start it.

Without --branch, asks which branch to run and whether to enable webcam mode.`,
		Args: cobra.NoArgs,
		RunE: updateFacefusion,
	}
	cmd.Flags().String("branch", "", "Branch to update and start: master or next")
	cmd.Flags().Bool("webcam", false, "Start with the webcam layout")
	return cmd
}

func updateFacefusion(cmd *cobra.Command, args []string) error {
	branch, err := cmd.Flags().GetString("branch")
	if err != nil {
		return err
	}
	webcam, err := cmd.Flags().GetBool("webcam")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	u := updater.New(cfg, shell.NewExecRunner())

	if branch == "" {
		menu := &updater.Menu{Updater: u, Localizer: localizer(cfg), In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		return menu.Run(cmd.Context())
	}
	if branch != updater.Master && branch != updater.Next {
		return fmt.Errorf("Unknown branch %q, use %s or %s", branch, updater.Master, updater.Next)
	}
	if err := u.UpdateBranch(cmd.Context(), branch); err != nil {
		return err
	}
	return u.Launch(cmd.Context(), branch, webcam)
}
