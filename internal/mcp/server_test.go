package mcp

import (
	"context"
	"testing"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/config"
	"github.com/1broseidon/tilegrid/internal/ipc"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	cfg := config.DefaultConfig()
	b := board.New(cfg.Columns, cfg.SpacingX, cfg.SpacingY)

	gridSrv, err := ipc.NewServer(cfg, b, make(chan struct{}, 1))
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	if err := gridSrv.Start(); err != nil {
		t.Fatalf("ipc server start: %v", err)
	}
	t.Cleanup(gridSrv.Stop)

	return NewServer()
}

func TestHandleTileToolsRoundTrip(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleAddTile(ctx, nil, AddTileInput{ID: "a", SpanW: 2}); err != nil {
		t.Fatalf("add_tile a: %v", err)
	}
	if _, _, err := s.handleAddTile(ctx, nil, AddTileInput{ID: "b"}); err != nil {
		t.Fatalf("add_tile b: %v", err)
	}
	if _, _, err := s.handleAddTile(ctx, nil, AddTileInput{ID: "a"}); err == nil {
		t.Fatal("duplicate add_tile should fail")
	}

	_, list, err := s.handleListTiles(ctx, nil, ListTilesInput{})
	if err != nil {
		t.Fatalf("list_tiles: %v", err)
	}
	if len(list.Tiles) != 2 || list.Tiles[0].ID != "a" || list.Tiles[0].SpanW != 2 {
		t.Fatalf("unexpected tile list: %+v", list.Tiles)
	}

	_, move, err := s.handleMoveTile(ctx, nil, MoveTileInput{ID: "a", Row: 0, Col: 3})
	if err != nil {
		t.Fatalf("move_tile: %v", err)
	}
	if move.OldIndex != 0 || move.NewIndex != 1 {
		t.Fatalf("move indexes = (%d, %d), want (0, 1)", move.OldIndex, move.NewIndex)
	}

	if _, _, err := s.handleRemoveTile(ctx, nil, RemoveTileInput{ID: "b"}); err != nil {
		t.Fatalf("remove_tile: %v", err)
	}

	_, status, err := s.handleGridStatus(ctx, nil, GridStatusInput{})
	if err != nil {
		t.Fatalf("grid_status: %v", err)
	}
	if status.TileCount != 1 {
		t.Fatalf("tile count = %d, want 1", status.TileCount)
	}
}

func TestHandlePresetAndColumns(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, applied, err := s.handleApplyPreset(ctx, nil, ApplyPresetInput{Name: "dashboard"})
	if err != nil {
		t.Fatalf("apply_preset: %v", err)
	}
	if !applied.Applied || applied.TileCount == 0 {
		t.Fatalf("unexpected apply_preset output: %+v", applied)
	}
	if _, _, err := s.handleApplyPreset(ctx, nil, ApplyPresetInput{Name: "nope"}); err == nil {
		t.Fatal("unknown preset should fail")
	}

	if _, _, err := s.handleSetColumns(ctx, nil, SetColumnsInput{Columns: 6}); err != nil {
		t.Fatalf("set_columns: %v", err)
	}
	if _, _, err := s.handleSetColumns(ctx, nil, SetColumnsInput{Columns: 0}); err == nil {
		t.Fatal("invalid column count should fail")
	}

	_, status, err := s.handleGridStatus(ctx, nil, GridStatusInput{})
	if err != nil {
		t.Fatalf("grid_status: %v", err)
	}
	if status.Columns != 6 || status.ActivePreset != "dashboard" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
