// Package mcp exposes the evaluation engine as an MCP server so agent
// hosts can drive a canvas over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    ports.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server around the engine.
func NewServer(engine ports.Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("canvas-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("sync_graph",
		mcp.WithDescription("Reconcile the engine against a full graph snapshot and re-evaluate whatever the edit touched."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("JSON object {nodes: [{id, code}], edges: [{source, target}]}")),
	), s.handleSyncGraph)

	s.mcpServer.AddTool(mcp.NewTool("evaluate_node",
		mcp.WithDescription("Re-run one node and its downstream closure."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to evaluate")),
	), s.handleEvaluateNode)

	s.mcpServer.AddTool(mcp.NewTool("evaluate_all",
		mcp.WithDescription("Re-run every node in the committed graph."),
	), s.handleEvaluateAll)

	s.mcpServer.AddTool(mcp.NewTool("update_controls",
		mcp.WithDescription("Apply new control values to a node; re-evaluates its closure if anything changed."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node whose controls to update")),
		mcp.WithString("values", mcp.Required(), mcp.Description("JSON object of control name to new value")),
	), s.handleUpdateControls)

	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Get the committed evaluation state of the whole canvas."),
	), s.handleGetSnapshot)
}

func (s *Server) handleSyncGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("graph", "")

	var snapshot domain.GraphSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid graph payload: %v", err)), nil
	}
	if err := s.engine.SyncGraph(ctx, &snapshot); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
	}
	return s.snapshotResult()
}

func (s *Server) handleEvaluateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := request.GetString("node_id", "")
	if err := s.engine.EvaluateNode(ctx, nodeID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluate failed: %v", err)), nil
	}
	return s.snapshotResult()
}

func (s *Server) handleEvaluateAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.engine.EvaluateAll(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluate failed: %v", err)), nil
	}
	return s.snapshotResult()
}

func (s *Server) handleUpdateControls(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeID := request.GetString("node_id", "")

	var values map[string]any
	if err := json.Unmarshal([]byte(request.GetString("values", "{}")), &values); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid values payload: %v", err)), nil
	}
	if err := s.engine.UpdateNodeControls(ctx, nodeID, values); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}
	return s.snapshotResult()
}

func (s *Server) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.snapshotResult()
}

func (s *Server) snapshotResult() (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.engine.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
