package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"helpdesk/app/config"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/oops"
)

type mcpClientWrapper struct {
	client client.MCPClient
	name   string
}

// mcpToolAdapter exposes a tool from an external MCP server through the
// same interface as the built-in lookups.
type mcpToolAdapter struct {
	client client.MCPClient
	tool   mcp.Tool
	name   string
}

func (m *mcpToolAdapter) Name() string {
	return m.name
}

func (m *mcpToolAdapter) Description() string {
	return m.tool.Description
}

func (m *mcpToolAdapter) Call(ctx context.Context, input string) (string, error) {
	callRequest := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
	}

	callRequest.Params.Name = m.tool.Name
	callRequest.Params.Arguments = m.buildArguments(input)

	response, err := m.client.CallTool(ctx, callRequest)
	if err != nil {
		return "", oops.Errorf("MCP tool call failed: %w", err)
	}

	var result strings.Builder
	for _, content := range response.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			result.WriteString(textContent.Text)
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String()), nil
}

func (m *mcpToolAdapter) buildArguments(input string) map[string]interface{} {
	trimmed := strings.TrimSpace(input)

	if strings.HasPrefix(trimmed, "{") {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return args
		}
	}

	// Non-JSON input goes into the first schema property when there is one.
	for propName := range m.tool.InputSchema.Properties {
		return map[string]interface{}{
			propName: input,
		}
	}

	return map[string]interface{}{
		"input": input,
	}
}

func (r *Registry) initializeMCPClients() error {
	for _, server := range r.cfg.MCP.Servers {
		if err := r.bridgeMCPServer(server); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) bridgeMCPServer(server config.MCPServer) error {
	mcpClient, err := client.NewStdioMCPClient(server.Command, nil, server.Args...)
	if err != nil {
		return oops.Errorf("failed to create MCP client for %s: %w", server.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "helpdesk",
		Version: "1.0.0",
	}

	if _, err = mcpClient.Initialize(ctx, initRequest); err != nil {
		return oops.Errorf("failed to initialize MCP client %s: %w", server.Name, err)
	}

	toolsResponse, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return oops.Errorf("failed to list tools from %s: %w", server.Name, err)
	}

	for _, mcpTool := range toolsResponse.Tools {
		adapter := &mcpToolAdapter{
			client: mcpClient,
			tool:   mcpTool,
			name:   fmt.Sprintf("%s_%s", server.Name, mcpTool.Name),
		}
		r.tools[adapter.Name()] = adapter
		r.extras = append(r.extras, adapter)
	}

	r.mcpClients = append(r.mcpClients, &mcpClientWrapper{
		client: mcpClient,
		name:   server.Name,
	})

	return nil
}
