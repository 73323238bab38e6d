package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGridStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GridStatusInput) (*mcpsdk.CallToolResult, GridStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GridStatusOutput{}, err
	}

	out := GridStatusOutput{
		Columns:       status.Columns,
		TileCount:     status.TileCount,
		Rows:          status.Rows,
		ActivePreset:  status.ActivePreset,
		UptimeSeconds: status.UptimeSeconds,
	}
	return nil, out, nil
}

func (s *Server) handleListTiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListTilesInput) (*mcpsdk.CallToolResult, ListTilesOutput, error) {
	layout, err := s.client.GetLayout()
	if err != nil {
		return nil, ListTilesOutput{}, err
	}

	tiles := make([]TileEntry, len(layout.Tiles))
	for i, t := range layout.Tiles {
		tiles[i] = TileEntry{
			ID:    t.ID,
			SpanW: t.SpanW,
			SpanH: t.SpanH,
			Row:   t.Row,
			Col:   t.Col,
		}
	}

	out := ListTilesOutput{
		Columns: layout.Columns,
		Rows:    layout.Rows,
		Tiles:   tiles,
	}
	return nil, out, nil
}

func (s *Server) handleAddTile(_ context.Context, _ *mcpsdk.CallToolRequest, args AddTileInput) (*mcpsdk.CallToolResult, AddTileOutput, error) {
	if args.ID == "" {
		return nil, AddTileOutput{}, fmt.Errorf("id is required")
	}
	spanW, spanH := args.SpanW, args.SpanH
	if spanW < 1 {
		spanW = 1
	}
	if spanH < 1 {
		spanH = 1
	}

	if err := s.client.AddTile(args.ID, spanW, spanH); err != nil {
		return nil, AddTileOutput{}, err
	}
	return nil, AddTileOutput{Added: true}, nil
}

func (s *Server) handleRemoveTile(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveTileInput) (*mcpsdk.CallToolResult, RemoveTileOutput, error) {
	if args.ID == "" {
		return nil, RemoveTileOutput{}, fmt.Errorf("id is required")
	}

	if err := s.client.RemoveTile(args.ID); err != nil {
		return nil, RemoveTileOutput{}, err
	}
	return nil, RemoveTileOutput{Removed: true}, nil
}

func (s *Server) handleMoveTile(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveTileInput) (*mcpsdk.CallToolResult, MoveTileOutput, error) {
	if args.ID == "" {
		return nil, MoveTileOutput{}, fmt.Errorf("id is required")
	}
	if args.Row < 0 || args.Col < 0 {
		return nil, MoveTileOutput{}, fmt.Errorf("row and col must be >= 0")
	}

	move, err := s.client.MoveTile(args.ID, args.Row, args.Col)
	if err != nil {
		return nil, MoveTileOutput{}, err
	}
	return nil, MoveTileOutput{OldIndex: move.OldIndex, NewIndex: move.NewIndex}, nil
}

func (s *Server) handleSetColumns(_ context.Context, _ *mcpsdk.CallToolRequest, args SetColumnsInput) (*mcpsdk.CallToolResult, SetColumnsOutput, error) {
	if err := s.client.SetColumns(args.Columns); err != nil {
		return nil, SetColumnsOutput{}, err
	}
	return nil, SetColumnsOutput{Columns: args.Columns}, nil
}

func (s *Server) handleApplyPreset(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyPresetInput) (*mcpsdk.CallToolResult, ApplyPresetOutput, error) {
	if args.Name == "" {
		return nil, ApplyPresetOutput{}, fmt.Errorf("name is required")
	}

	if err := s.client.ApplyPreset(args.Name); err != nil {
		return nil, ApplyPresetOutput{}, err
	}

	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ApplyPresetOutput{}, err
	}
	return nil, ApplyPresetOutput{Applied: true, TileCount: status.TileCount}, nil
}
