package ipc

import (
	"testing"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/config"
)

func startTestServer(t *testing.T) (*Server, *Client) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	cfg := config.DefaultConfig()
	b := board.New(cfg.Columns, cfg.SpacingX, cfg.SpacingY)

	srv, err := NewServer(cfg, b, make(chan struct{}, 1))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	return srv, NewClient()
}

func TestServer_StatusAndLayoutRoundTrip(t *testing.T) {
	_, client := startTestServer(t)

	if err := client.SetTiles([]TileSpecPayload{
		{ID: "a", SpanW: 2, SpanH: 1},
		{ID: "b", SpanW: 1, SpanH: 1},
		{ID: "c", SpanW: 1, SpanH: 1},
	}); err != nil {
		t.Fatalf("SetTiles: %v", err)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.ServerRunning || status.TileCount != 3 || status.Columns != 4 {
		t.Fatalf("unexpected status: %+v", status)
	}

	layout, err := client.GetLayout()
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if len(layout.Tiles) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(layout.Tiles))
	}
	first := layout.Tiles[0]
	if first.ID != "a" || first.Row != 0 || first.Col != 0 || first.SpanW != 2 {
		t.Fatalf("unexpected first tile: %+v", first)
	}
}

func TestServer_TileLifecycle(t *testing.T) {
	_, client := startTestServer(t)

	if err := client.SetTiles([]TileSpecPayload{
		{ID: "a", SpanW: 1, SpanH: 1},
		{ID: "b", SpanW: 1, SpanH: 1},
	}); err != nil {
		t.Fatalf("SetTiles: %v", err)
	}

	if err := client.AddTile("c", 1, 1); err != nil {
		t.Fatalf("AddTile: %v", err)
	}
	if err := client.AddTile("c", 1, 1); err == nil {
		t.Fatal("duplicate AddTile should fail")
	}

	move, err := client.MoveTile("a", 0, 3)
	if err != nil {
		t.Fatalf("MoveTile: %v", err)
	}
	if move.OldIndex != 0 || move.NewIndex != 2 {
		t.Fatalf("MoveTile indexes = (%d, %d), want (0, 2)", move.OldIndex, move.NewIndex)
	}

	if err := client.RemoveTile("b"); err != nil {
		t.Fatalf("RemoveTile: %v", err)
	}
	layout, err := client.GetLayout()
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if len(layout.Tiles) != 2 {
		t.Fatalf("expected 2 tiles after removal, got %d", len(layout.Tiles))
	}
	if err := client.RemoveTile("ghost"); err == nil {
		t.Fatal("removing a missing tile should fail")
	}
}

func TestServer_PresetsAndColumns(t *testing.T) {
	srv, client := startTestServer(t)

	presets, err := client.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if presets.DefaultPreset != "dashboard" {
		t.Fatalf("default preset = %q, want dashboard", presets.DefaultPreset)
	}

	if err := client.ApplyPreset("dashboard"); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.ActivePreset != "dashboard" {
		t.Fatalf("active preset = %q, want dashboard", status.ActivePreset)
	}
	if status.TileCount != len(srv.GetConfig().Presets["dashboard"]) {
		t.Fatalf("tile count = %d after preset load", status.TileCount)
	}

	if err := client.ApplyPreset("nope"); err == nil {
		t.Fatal("unknown preset should fail")
	}

	if err := client.SetColumns(6); err != nil {
		t.Fatalf("SetColumns: %v", err)
	}
	if err := client.SetColumns(0); err == nil {
		t.Fatal("invalid column count should fail")
	}
	layout, err := client.GetLayout()
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if layout.Columns != 6 {
		t.Fatalf("columns = %d, want 6", layout.Columns)
	}
}
