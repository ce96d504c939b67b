// Package config provides configuration management for yas-mcp.
//
// Configuration is read from a single YAML file decoded over built-in
// defaults, then environment variables prefixed with YAS_MCP_ are applied,
// and finally command-line flags (applied by the cmd package).
//
// # Configuration File
//
// The file is looked up in order:
//   - the path given with --config
//   - ./config.yaml
//   - /etc/yas-mcp/config.yaml
//
// When none exists the defaults are used. A file given explicitly must exist.
//
// # Example
//
//	server:
//	  mode: http
//	  port: 3000
//	endpoint:
//	  baseURL: https://api.example.com
//	  timeout: 10s
//	  headers:
//	    X-Tenant: acme
//	    Authorization: 'Bearer {{ env "API_TOKEN" }}'
//	spec:
//	  file: ./openapi.yaml
//	  adjustmentsFile: ./adjustments.yaml
//	  watch: true
//
// # Environment
//
//	YAS_MCP_SPEC_FILE          spec.file
//	YAS_MCP_ADJUSTMENTS_FILE   spec.adjustmentsFile
//	YAS_MCP_ENDPOINT_BASE_URL  endpoint.baseURL
//	YAS_MCP_ENDPOINT_TIMEOUT   endpoint.timeout
//	YAS_MCP_SERVER_MODE        server.mode
//	YAS_MCP_SERVER_HOST        server.host
//	YAS_MCP_SERVER_PORT        server.port
//	YAS_MCP_LOG_LEVEL          logging.level
//	YAS_MCP_LOG_FORMAT         logging.format
//	YAS_MCP_AUTH_TOKEN         endpoint.auth.token (implies bearer auth)
package config
