package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"yasmcp/internal/app"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the API document and adjustments",
		Long: `Parses the API document and the adjustments file and builds the tool set.
Exits with code 2 when either document cannot be parsed. Naming collisions
are reported but do not fail validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			initCommandLogging()
			settings, err := app.ResolveSettings(newAppConfig(app.Overrides{}))
			if err != nil {
				return err
			}
			doc, snap, err := app.LoadSnapshot(settings.Spec.File, settings.Spec.AdjustmentsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range snap.Diagnostics() {
				fmt.Fprintf(out, "warning: %s: %s %s: %s\n", d.Kind, d.Method, d.Path, d.Message)
			}
			fmt.Fprintf(out, "OK: %s %s, %d operations, %d tools, %d diagnostics\n",
				doc.Title, doc.Version, len(doc.Operations()), snap.Len(), len(snap.Diagnostics()))
			return nil
		},
	}
}
