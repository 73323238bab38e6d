package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/config"
	"github.com/1broseidon/tilegrid/internal/grid"
	"github.com/1broseidon/tilegrid/internal/runtimepath"
)

// Server handles IPC requests from clients. The board is not safe for
// concurrent use, so every handler that touches it holds boardMu.
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	board        *board.Board
	boardMu      sync.Mutex
	activePreset string
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, b *board.Board, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		board:      b,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// SetActivePreset records the preset name the board was last loaded from.
func (s *Server) SetActivePreset(name string) {
	s.boardMu.Lock()
	s.activePreset = name
	s.boardMu.Unlock()
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetLayout:
		return s.handleGetLayout()
	case CommandSetTiles:
		return s.handleSetTiles(req.Payload)
	case CommandAddTile:
		return s.handleAddTile(req.Payload)
	case CommandRemoveTile:
		return s.handleRemoveTile(req.Payload)
	case CommandMoveTile:
		return s.handleMoveTile(req.Payload)
	case CommandSetColumns:
		return s.handleSetColumns(req.Payload)
	case CommandListPresets:
		return s.handleListPresets()
	case CommandApplyPreset:
		return s.handleApplyPreset(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main process via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current server status
func (s *Server) handleGetStatus() *Response {
	s.boardMu.Lock()
	status := StatusData{
		Columns:       s.board.Columns(),
		TileCount:     len(s.board.Tiles()),
		Rows:          s.board.Rows(),
		ActivePreset:  s.activePreset,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		ServerRunning: true,
	}
	s.boardMu.Unlock()

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetLayout returns the placed tiles in their current order.
func (s *Server) handleGetLayout() *Response {
	s.boardMu.Lock()
	tiles := s.board.Tiles()
	infos := make([]TileInfo, 0, len(tiles))
	for _, t := range tiles {
		cell, ok := s.board.CellOf(t.ID)
		if !ok {
			continue
		}
		infos = append(infos, TileInfo{
			ID:    t.ID,
			SpanW: t.SpanW,
			SpanH: t.SpanH,
			Row:   cell.Row,
			Col:   cell.Col,
		})
	}
	data := LayoutData{
		Columns: s.board.Columns(),
		Rows:    s.board.Rows(),
		Tiles:   infos,
	}
	s.boardMu.Unlock()

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleSetTiles(payload json.RawMessage) *Response {
	var req SetTilesPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set-tiles payload: %v", err))
	}

	specs := make([]board.Spec, len(req.Tiles))
	for i, t := range req.Tiles {
		specs[i] = board.Spec{ID: t.ID, SpanW: t.SpanW, SpanH: t.SpanH}
	}

	s.boardMu.Lock()
	err := s.board.SetTiles(specs)
	s.activePreset = ""
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set tiles: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleAddTile(payload json.RawMessage) *Response {
	var req TileSpecPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid add-tile payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if req.SpanW < 1 {
		req.SpanW = 1
	}
	if req.SpanH < 1 {
		req.SpanH = 1
	}

	s.boardMu.Lock()
	err := s.board.AddTile(board.Spec{ID: req.ID, SpanW: req.SpanW, SpanH: req.SpanH})
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to add tile: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRemoveTile(payload json.RawMessage) *Response {
	var req RemoveTilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove-tile payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	s.boardMu.Lock()
	err := s.board.RemoveTile(req.ID)
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to remove tile: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleMoveTile(payload json.RawMessage) *Response {
	var req MoveTilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move-tile payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	s.boardMu.Lock()
	oldIndex, newIndex, err := s.board.MoveTile(req.ID, grid.Cell{Row: req.Row, Col: req.Col})
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to move tile: %v", err))
	}

	resp, _ := NewOKResponse(MoveTileData{OldIndex: oldIndex, NewIndex: newIndex})
	return resp
}

func (s *Server) handleSetColumns(payload json.RawMessage) *Response {
	var req SetColumnsPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set-columns payload: %v", err))
	}

	s.boardMu.Lock()
	err := s.board.SetColumns(req.Columns)
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set columns: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListPresets() *Response {
	s.cfgMu.RLock()
	names := make([]string, 0, len(s.cfg.Presets))
	for name := range s.cfg.Presets {
		names = append(names, name)
	}
	defaultPreset := s.cfg.DefaultPreset
	s.cfgMu.RUnlock()

	sort.Strings(names)

	s.boardMu.Lock()
	active := s.activePreset
	s.boardMu.Unlock()

	data := PresetsData{
		Presets:       names,
		DefaultPreset: defaultPreset,
		ActivePreset:  active,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleApplyPreset(payload json.RawMessage) *Response {
	var req ApplyPresetPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid apply-preset payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	s.cfgMu.RLock()
	tiles, ok := s.cfg.Presets[req.Name]
	s.cfgMu.RUnlock()
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown preset: %s", req.Name))
	}

	specs := make([]board.Spec, len(tiles))
	for i, t := range tiles {
		specs[i] = board.Spec{ID: t.ID, SpanW: t.SpanW, SpanH: t.SpanH, Payload: t.Label}
	}

	s.boardMu.Lock()
	err := s.board.SetTiles(specs)
	if err == nil {
		s.activePreset = req.Name
	}
	s.boardMu.Unlock()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply preset: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
