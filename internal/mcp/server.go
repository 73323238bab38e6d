// Package mcp exposes the grid server to MCP clients: every tool call is
// bridged over the local IPC socket so agents operate on the same live
// layout the host renders.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilegrid/internal/ipc"
)

const (
	ServerName    = "tilegrid"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for grid layout control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server backed by the grid server's IPC socket.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_status",
		Description: "Get the grid server status: column count, tile count, row count, active preset, and uptime.",
	}, s.handleGridStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_tiles",
		Description: "List all tiles in their current order with their spans and placed cells.",
	}, s.handleListTiles)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_tile",
		Description: "Add a tile to the grid. The tile is packed into the first free position. Fails if the id already exists or the tile is wider than the grid.",
	}, s.handleAddTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_tile",
		Description: "Remove a tile from the grid by id. Remaining tiles are repacked to fill the gap.",
	}, s.handleRemoveTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_tile",
		Description: "Move a tile to a target cell. The tile is pinned there, the rest repack around it, and the tile order is resequenced to match the new visual positions. Returns the tile's old and new order index.",
	}, s.handleMoveTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_columns",
		Description: "Change the grid width in columns (1-62) and repack all tiles. Fails if any tile is wider than the new column count.",
	}, s.handleSetColumns)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_preset",
		Description: "Replace the current tile set with a named preset from the configuration.",
	}, s.handleApplyPreset)
}
