// Package logging provides structured logging for yas-mcp with subsystem tags
// and level filtering.
//
// The package wraps Go's standard slog package. Every entry carries a
// subsystem attribute so that the output of the document loader, the registry
// builder and the dispatcher can be told apart and filtered.
//
// # Log Levels
//   - **Debug**: per-operation decisions (route filtered, tool registered)
//   - **Info**: lifecycle events (document loaded, server started, reload done)
//   - **Warn**: recoverable findings (naming collisions, missing adjustments file)
//   - **Error**: failures returned to the caller or aborting startup
//
// # Usage Examples
//
//	import "yasmcp/pkg/logging"
//
//	// Text output on stderr, the stdio transport owns stdout
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	// JSON output for log shippers
//	logging.InitWithFormat(logging.LevelDebug, logging.FormatJSON, os.Stderr)
//
//	logging.Info("Bootstrap", "Loaded %d tools", n)
//	logging.Warn("Registry", "Dropping %s %s: name %s already taken", method, path, name)
//	logging.Error("Dispatch", err, "Request for tool %s failed", tool)
//
// # Subsystems
//
//   - **Bootstrap**: application initialization
//   - **Config**: configuration loading
//   - **Spec**: specification parsing
//   - **Adjust**: adjustment document loading
//   - **Registry**: tool registry builds
//   - **Dispatch**: outbound HTTP calls
//   - **Server**: MCP transport
//   - **Watch**: file watching and reloads
//
// # Thread Safety
//
// Initialization and logging may happen from any goroutine; the active
// logger is swapped under a lock.
package logging
