package mcp

// GridStatusInput is the input for the grid_status tool.
type GridStatusInput struct{}

// GridStatusOutput is the output for the grid_status tool.
type GridStatusOutput struct {
	Columns       int    `json:"columns"`
	TileCount     int    `json:"tile_count"`
	Rows          int    `json:"rows"`
	ActivePreset  string `json:"active_preset,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListTilesInput is the input for the list_tiles tool.
type ListTilesInput struct{}

// TileEntry describes one placed tile.
type TileEntry struct {
	ID    string `json:"id"`
	SpanW int    `json:"span_w"`
	SpanH int    `json:"span_h"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// ListTilesOutput is the output for the list_tiles tool.
type ListTilesOutput struct {
	Columns int         `json:"columns"`
	Rows    int         `json:"rows"`
	Tiles   []TileEntry `json:"tiles"`
}

// AddTileInput is the input for the add_tile tool.
type AddTileInput struct {
	ID    string `json:"id" jsonschema:"required,Unique tile identifier"`
	SpanW int    `json:"span_w,omitempty" jsonschema:"Tile width in cells (default: 1)"`
	SpanH int    `json:"span_h,omitempty" jsonschema:"Tile height in cells (default: 1)"`
}

// AddTileOutput is the output for the add_tile tool.
type AddTileOutput struct {
	Added bool `json:"added"`
}

// RemoveTileInput is the input for the remove_tile tool.
type RemoveTileInput struct {
	ID string `json:"id" jsonschema:"required,Identifier of the tile to remove"`
}

// RemoveTileOutput is the output for the remove_tile tool.
type RemoveTileOutput struct {
	Removed bool `json:"removed"`
}

// MoveTileInput is the input for the move_tile tool.
type MoveTileInput struct {
	ID  string `json:"id" jsonschema:"required,Identifier of the tile to move"`
	Row int    `json:"row" jsonschema:"required,Target row (0-based)"`
	Col int    `json:"col" jsonschema:"required,Target column (0-based)"`
}

// MoveTileOutput is the output for the move_tile tool.
type MoveTileOutput struct {
	OldIndex int `json:"old_index"`
	NewIndex int `json:"new_index"`
}

// SetColumnsInput is the input for the set_columns tool.
type SetColumnsInput struct {
	Columns int `json:"columns" jsonschema:"required,New column count (1-62)"`
}

// SetColumnsOutput is the output for the set_columns tool.
type SetColumnsOutput struct {
	Columns int `json:"columns"`
}

// ApplyPresetInput is the input for the apply_preset tool.
type ApplyPresetInput struct {
	Name string `json:"name" jsonschema:"required,Preset name from the configuration"`
}

// ApplyPresetOutput is the output for the apply_preset tool.
type ApplyPresetOutput struct {
	Applied   bool `json:"applied"`
	TileCount int  `json:"tile_count"`
}
