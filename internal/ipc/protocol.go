package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetLayout   CommandType = "GET_LAYOUT"
	CommandSetTiles    CommandType = "SET_TILES"
	CommandAddTile     CommandType = "ADD_TILE"
	CommandRemoveTile  CommandType = "REMOVE_TILE"
	CommandMoveTile    CommandType = "MOVE_TILE"
	CommandSetColumns  CommandType = "SET_COLUMNS"
	CommandListPresets CommandType = "LIST_PRESETS"
	CommandApplyPreset CommandType = "APPLY_PRESET"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Columns       int    `json:"columns"`
	TileCount     int    `json:"tile_count"`
	Rows          int    `json:"rows"`
	ActivePreset  string `json:"active_preset,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ServerRunning bool   `json:"server_running"`
}

// TileInfo describes one placed tile in GET_LAYOUT output.
type TileInfo struct {
	ID    string `json:"id"`
	SpanW int    `json:"span_w"`
	SpanH int    `json:"span_h"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// LayoutData represents the data returned by GET_LAYOUT
type LayoutData struct {
	Columns int        `json:"columns"`
	Rows    int        `json:"rows"`
	Tiles   []TileInfo `json:"tiles"`
}

// TileSpecPayload describes a tile for SET_TILES and ADD_TILE.
type TileSpecPayload struct {
	ID    string `json:"id"`
	SpanW int    `json:"span_w"`
	SpanH int    `json:"span_h"`
}

type SetTilesPayload struct {
	Tiles []TileSpecPayload `json:"tiles"`
}

type RemoveTilePayload struct {
	ID string `json:"id"`
}

type MoveTilePayload struct {
	ID  string `json:"id"`
	Row int    `json:"row"`
	Col int    `json:"col"`
}

// MoveTileData reports the order change caused by MOVE_TILE.
type MoveTileData struct {
	OldIndex int `json:"old_index"`
	NewIndex int `json:"new_index"`
}

type SetColumnsPayload struct {
	Columns int `json:"columns"`
}

type PresetsData struct {
	Presets       []string `json:"presets"`
	DefaultPreset string   `json:"default_preset"`
	ActivePreset  string   `json:"active_preset,omitempty"`
}

type ApplyPresetPayload struct {
	Name string `json:"name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
