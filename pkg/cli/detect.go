package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show the display adapters and the hardware class they map to",
		Args:  cobra.NoArgs,
		RunE:  detect,
	}
	return cmd
}

func detect(cmd *cobra.Command, args []string) error {
	classifier := hardware.NewClassifier(hardware.DefaultLister(shell.NewExecRunner()))
	det := classifier.Detect(cmd.Context())

	out := cmd.OutOrStdout()
	for _, d := range det.Descriptors {
		fmt.Fprintf(out, "  %s\n", d)
	}
	if vendors := hardware.Vendors(det.Descriptors); len(vendors) > 0 {
		fmt.Fprintf(out, "Vendors: %s\n", strings.Join(vendors, ", "))
	}
	fmt.Fprintln(out, console.Rule())
	fmt.Fprintf(out, "Hardware class: %s\n", det.Class)
	return nil
}
