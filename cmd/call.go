package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"yasmcp/internal/app"
	"yasmcp/internal/formatting"
)

func newCallCmd() *cobra.Command {
	var (
		endpoint string
		rawArgs  string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "call TOOL",
		Short: "Invoke one tool directly and print the response",
		Long: `Dispatches a single tool against the endpoint without starting a
transport. Arguments are given as one JSON object, for example:

  yas-mcp call todos_id_get --spec-file openapi.yaml \
    --endpoint https://api.example.com --args '{"id": "42"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return err
			}

			var toolArgs map[string]interface{}
			if rawArgs != "" {
				if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
					return fmt.Errorf("--args must be a JSON object: %w", err)
				}
			}

			initCommandLogging()
			settings, err := app.ResolveSettings(newAppConfig(app.Overrides{BaseURL: endpoint}))
			if err != nil {
				return err
			}

			resp, err := app.ExecuteDirect(cmd.Context(), settings, args[0], toolArgs)
			if err != nil {
				return err
			}
			return formatting.New(format).FormatResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Base URL of the API")
	cmd.Flags().StringVar(&rawArgs, "args", "", "Tool arguments as a JSON object")
	cmd.Flags().StringVarP(&output, "output", "o", string(formatting.FormatJSON), "Output format: table, json or yaml")
	return cmd
}
