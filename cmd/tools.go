package cmd

import (
	"github.com/spf13/cobra"

	"yasmcp/internal/app"
	"yasmcp/internal/formatting"
)

func newToolsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the API document produces",
		Long: `Builds the tool set without serving it and prints every tool with its
route, followed by any build diagnostics such as naming collisions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return err
			}

			initCommandLogging()
			settings, err := app.ResolveSettings(newAppConfig(app.Overrides{}))
			if err != nil {
				return err
			}
			_, snap, err := app.LoadSnapshot(settings.Spec.File, settings.Spec.AdjustmentsFile)
			if err != nil {
				return err
			}
			return formatting.New(format).FormatTools(cmd.OutOrStdout(), snap.Entries(), snap.Diagnostics())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatting.FormatTable), "Output format: table, json or yaml")
	return cmd
}
