// Package app wires yas-mcp together: it resolves configuration, builds the
// tool registry, and runs the selected transport.
//
// # Bootstrap
//
// NewApplication performs the startup sequence:
//
//  1. Logging is initialized on stderr at info level (debug with --debug)
//  2. Settings are resolved: defaults, config file, YAS_MCP_* environment,
//     then command line overrides, and validated
//  3. Logging is re-initialized with the configured level and format
//  4. The API document and adjustments are parsed and a registry snapshot
//     is built
//  5. The dispatcher, metrics collector and tool server are created and the
//     snapshot is published
//
// Parse errors and configuration errors are returned as they are so the
// command layer can map them to exit codes.
//
// # Reloading
//
// With spec.watch enabled, Run also starts a file watcher. Each debounced
// change triggers Services.Reload, which rebuilds the snapshot and swaps it
// into the registry holder. Concurrent reloads are coalesced. A document
// that fails to parse leaves the previous snapshot active.
//
// # Base URL
//
// endpoint.baseURL wins when set; otherwise the first absolute server URL
// declared by the document is used.
package app
