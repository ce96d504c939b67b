package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"yasmcp/internal/dispatch"
	"yasmcp/internal/metrics"
	"yasmcp/internal/registry"
	"yasmcp/internal/schema"
	"yasmcp/pkg/logging"
)

// Executor performs the HTTP call behind a tool.
type Executor interface {
	Execute(ctx context.Context, route registry.Route, baseURL string, args map[string]interface{}) (*dispatch.HTTPResponse, error)
}

// Options configures a ToolServer.
type Options struct {
	Name              string
	Version           string
	ValidateArguments bool
	Metrics           *metrics.Collector
}

// ToolServer publishes registry snapshots as MCP tools.
type ToolServer struct {
	mcpServer *mcpserver.MCPServer
	holder    *registry.Holder
	exec      Executor
	opts      Options

	mu         sync.RWMutex
	baseURL    string
	validators map[string]*gojsonschema.Schema
}

// New creates a ToolServer. Call Sync to publish the holder's snapshot.
func New(holder *registry.Holder, exec Executor, opts Options) *ToolServer {
	return &ToolServer{
		mcpServer: mcpserver.NewMCPServer(
			opts.Name,
			opts.Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		),
		holder:     holder,
		exec:       exec,
		opts:       opts,
		validators: map[string]*gojsonschema.Schema{},
	}
}

// MCPServer returns the underlying mcp-go server.
func (s *ToolServer) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Sync replaces the published tool set with the holder's current snapshot
// and sets the backend base URL used by subsequent calls.
func (s *ToolServer) Sync(baseURL string) int {
	entries := s.holder.Load().Entries()

	tools := make([]mcpserver.ServerTool, 0, len(entries))
	validators := make(map[string]*gojsonschema.Schema, len(entries))
	for _, e := range entries {
		tool, err := ToMCPTool(e.Tool)
		if err != nil {
			logging.Warn("Server", "Skipping tool %s: %v", e.Tool.Name, err)
			continue
		}
		if s.opts.ValidateArguments {
			if v, err := compileValidator(tool.RawInputSchema); err != nil {
				logging.Warn("Server", "Argument validation disabled for %s: %v", e.Tool.Name, err)
			} else {
				validators[e.Tool.Name] = v
			}
		}
		tools = append(tools, mcpserver.ServerTool{Tool: tool, Handler: s.handler(e.Tool.Name)})
	}

	s.mu.Lock()
	s.baseURL = baseURL
	s.validators = validators
	s.mu.Unlock()

	s.mcpServer.SetTools(tools...)
	logging.Info("Server", "Published %d tools", len(tools))
	return len(tools)
}

func (s *ToolServer) currentBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *ToolServer) validator(name string) *gojsonschema.Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validators[name]
}

// ToMCPTool converts a registry tool into its MCP definition. The output
// schema is attached only for object schemas.
func ToMCPTool(t registry.Tool) (mcp.Tool, error) {
	input, err := json.Marshal(t.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("encoding input schema: %w", err)
	}
	tool := mcp.NewToolWithRawSchema(t.Name, t.Description, input)

	if obj, ok := t.OutputSchema.(*schema.Object); ok {
		output, err := json.Marshal(obj)
		if err != nil {
			return mcp.Tool{}, fmt.Errorf("encoding output schema: %w", err)
		}
		tool.RawOutputSchema = output
	}
	return tool, nil
}

func (s *ToolServer) handler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry, ok := s.holder.Load().Lookup(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("tool %s is no longer available", name)), nil
		}

		args := req.GetArguments()
		if args == nil {
			args = map[string]interface{}{}
		}

		if v := s.validator(name); v != nil {
			if err := validateArguments(v, args); err != nil {
				s.opts.Metrics.RecordRejected(name)
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		resp, err := s.exec.Execute(ctx, entry.Route, s.currentBaseURL(), args)
		if err != nil {
			logging.Warn("Server", "Tool %s failed: %v", name, err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return RenderResponse(entry.Tool, resp), nil
	}
}

// RenderResponse converts an HTTP response into a tool result. Statuses of
// 400 and above are flagged as errors.
func RenderResponse(tool registry.Tool, resp *dispatch.HTTPResponse) *mcp.CallToolResult {
	var text string
	switch body := resp.Body.(type) {
	case nil:
	case string:
		text = body
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			text = fmt.Sprint(body)
		} else {
			text = string(raw)
		}
	}
	if text == "" {
		text = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: resp.StatusCode >= 400,
	}
	if obj, ok := resp.Body.(map[string]interface{}); ok && !result.IsError && schema.IsObject(tool.OutputSchema) {
		result.StructuredContent = obj
	}
	return result
}
