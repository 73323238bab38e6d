package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilegrid/internal/runtimepath"
)

// Client handles IPC communication with the grid server
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w (is the server running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the server
func (c *Client) Reload() error {
	req := &Request{
		Command: CommandReload,
	}

	_, err := c.sendRequest(req)
	return err
}

// GetStatus retrieves server status
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetLayout retrieves the placed tiles in their current order.
func (c *Client) GetLayout() (*LayoutData, error) {
	req := &Request{
		Command: CommandGetLayout,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var layout LayoutData
	if err := json.Unmarshal(resp.Data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout data: %w", err)
	}

	return &layout, nil
}

// SetTiles replaces the tile set.
func (c *Client) SetTiles(tiles []TileSpecPayload) error {
	payload, err := json.Marshal(SetTilesPayload{Tiles: tiles})
	if err != nil {
		return fmt.Errorf("failed to marshal set-tiles payload: %w", err)
	}

	req := &Request{
		Command: CommandSetTiles,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// AddTile appends a tile to the grid.
func (c *Client) AddTile(id string, spanW, spanH int) error {
	payload, err := json.Marshal(TileSpecPayload{ID: id, SpanW: spanW, SpanH: spanH})
	if err != nil {
		return fmt.Errorf("failed to marshal add-tile payload: %w", err)
	}

	req := &Request{
		Command: CommandAddTile,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// RemoveTile removes a tile from the grid.
func (c *Client) RemoveTile(id string) error {
	payload, err := json.Marshal(RemoveTilePayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal remove-tile payload: %w", err)
	}

	req := &Request{
		Command: CommandRemoveTile,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// MoveTile pins a tile to a target cell, repacks the rest, and reports the
// resulting order change.
func (c *Client) MoveTile(id string, row, col int) (*MoveTileData, error) {
	payload, err := json.Marshal(MoveTilePayload{ID: id, Row: row, Col: col})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move-tile payload: %w", err)
	}

	req := &Request{
		Command: CommandMoveTile,
		Payload: payload,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var data MoveTileData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse move-tile data: %w", err)
	}

	return &data, nil
}

// SetColumns changes the grid width in columns.
func (c *Client) SetColumns(columns int) error {
	payload, err := json.Marshal(SetColumnsPayload{Columns: columns})
	if err != nil {
		return fmt.Errorf("failed to marshal set-columns payload: %w", err)
	}

	req := &Request{
		Command: CommandSetColumns,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// ListPresets retrieves the configured presets and current selection.
func (c *Client) ListPresets() (*PresetsData, error) {
	req := &Request{
		Command: CommandListPresets,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var data PresetsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse presets data: %w", err)
	}

	return &data, nil
}

// ApplyPreset loads a named preset onto the grid.
func (c *Client) ApplyPreset(name string) error {
	payload, err := json.Marshal(ApplyPresetPayload{Name: name})
	if err != nil {
		return fmt.Errorf("failed to marshal apply-preset payload: %w", err)
	}

	req := &Request{
		Command: CommandApplyPreset,
		Payload: payload,
	}

	_, err = c.sendRequest(req)
	return err
}

// Ping checks if the server is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
