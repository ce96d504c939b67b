package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"yasmcp/internal/adjust"
	"yasmcp/internal/app"
	"yasmcp/internal/config"
	"yasmcp/internal/spec"
	"yasmcp/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates invalid configuration or an unparseable input document.
	ExitCodeConfig = 2
)

// Flags shared by every command that reads the API document.
var (
	configPath      string
	debug           bool
	specFile        string
	adjustmentsFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "yas-mcp",
	Short: "Expose an OpenAPI described HTTP API as MCP tools",
	Long: `yas-mcp reads an OpenAPI 3 or Swagger 2 document and publishes one MCP tool
per operation. Calling a tool issues the matching HTTP request against the
configured endpoint and returns the response to the client.

An optional adjustments file restricts which routes become tools and
overrides their descriptions.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "yas-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var specErr *spec.ParseError
	if errors.As(err, &specErr) {
		return ExitCodeConfig
	}

	var adjustErr *adjust.ParseError
	if errors.As(err, &adjustErr) {
		return ExitCodeConfig
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfig
	}

	var validationErr config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitCodeConfig
	}

	if errors.Is(err, os.ErrNotExist) || errors.Is(err, app.ErrNoBaseURL) {
		return ExitCodeConfig
	}

	return ExitCodeError
}

// newAppConfig collects the shared flags into an application config.
func newAppConfig(overrides app.Overrides) *app.Config {
	overrides.SpecFile = specFile
	overrides.AdjustmentsFile = adjustmentsFile
	overrides.Version = rootCmd.Version
	return app.NewConfig(debug, configPath, overrides)
}

// initCommandLogging keeps one-shot commands quiet unless --debug is set.
func initCommandLogging() {
	level := logging.LevelWarn
	if debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Configuration file (default ./config.yaml, then /etc/yas-mcp/config.yaml)")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&specFile, "spec-file", "", "OpenAPI 3 or Swagger 2 document (JSON or YAML)")
	flags.StringVar(&specFile, "swagger-file", "", "Alias for --spec-file")
	flags.StringVar(&adjustmentsFile, "adjustments-file", "", "Adjustments document restricting routes and overriding descriptions")
	_ = flags.MarkHidden("swagger-file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newValidateCmd())
}
