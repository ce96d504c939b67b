// Package server exposes the active tool registry over the Model
// Context Protocol using mcp-go.
//
// Each registry entry becomes an mcp.Tool with raw JSON schemas. Tool
// handlers resolve their route from the registry Holder at call time, so a
// reload takes effect for the next call without restarting the transport.
//
// # Transports
//
//   - stdio: protocol on stdin/stdout, logs on stderr
//   - sse: /sse and /message
//   - http: streamable HTTP on /mcp
//
// The sse and http modes also serve /health and, when enabled, /metrics.
package server
