package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/example/regionshade/internal/selection"
	"github.com/example/regionshade/internal/slots"
)

// Dispatcher runs fn on the daemon's event turn and returns once it has
// executed. The core is single-threaded; connection goroutines must never
// touch the controller directly.
type Dispatcher func(fn func())

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         *selection.Controller
	store        *slots.Store
	dispatch     Dispatcher
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(socketPath string, ctrl *selection.Controller, store *slots.Store, dispatch Dispatcher) *Server {
	// Remove stale socket from a previous run
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		store:      store,
		dispatch:   dispatch,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts down the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

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

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

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

// handleCommand runs the requested operation on the daemon event turn and
// builds the response from state captured inside that turn.
func (s *Server) handleCommand(req *Request) *Response {
	var resp *Response
	s.dispatch(func() {
		resp = s.runCommand(req)
	})
	if resp == nil {
		return NewErrorResponse("daemon did not handle the request")
	}
	return resp
}

func (s *Server) runCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.statusResponse()

	case CommandGetSlots:
		return s.slotsResponse()

	case CommandLoadSlot:
		slot, err := parseSlotPayload(req.Payload)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		s.ctrl.LoadSlot(slot)
		return s.statusResponse()

	case CommandSaveSlot:
		slot, err := parseSlotPayload(req.Payload)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		if s.ctrl.State() != selection.StateComplete {
			return NewErrorResponse("no region selected")
		}
		s.ctrl.SaveSlot(slot)
		return s.slotsResponse()

	case CommandCycle:
		s.ctrl.Cycle()
		return s.statusResponse()

	case CommandToggleInvert:
		s.ctrl.ToggleInvert()
		return s.statusResponse()

	case CommandToggleGrayscale:
		s.ctrl.ToggleGrayscale()
		return s.statusResponse()

	case CommandCycleWhiteLevel:
		s.ctrl.CycleWhiteLevel()
		return s.statusResponse()

	case CommandTogglePin:
		s.ctrl.TogglePin()
		return s.statusResponse()

	case CommandReset:
		s.ctrl.Reset()
		return s.statusResponse()

	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) statusResponse() *Response {
	settings := s.ctrl.Settings()
	status := StatusData{
		SelectionState:    s.ctrl.State().String(),
		InvertEnabled:     settings.InvertEnabled,
		GrayscaleEnabled:  settings.GrayscaleEnabled,
		GrayLevel:         settings.GrayLevel,
		BrightnessPercent: settings.BrightnessPercent(),
		Pinned:            s.ctrl.Pinned(),
		UptimeSeconds:     int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:     true,
	}
	if s.ctrl.State() == selection.StateComplete {
		r := s.ctrl.ClientRect()
		status.Region = &RegionInfo{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
	}

	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) slotsResponse() *Response {
	data := SlotsData{Slots: make([]SlotInfo, 0, slots.NumSlots)}
	for i := 0; i < slots.NumSlots; i++ {
		entry := s.store.Get(i)
		info := SlotInfo{Index: i, Valid: entry.Valid}
		if entry.Valid {
			info.Left = entry.Rect.Left
			info.Top = entry.Rect.Top
			info.Right = entry.Rect.Right
			info.Bottom = entry.Rect.Bottom
			info.Invert = entry.Settings.InvertEnabled
			info.Grayscale = entry.Settings.GrayscaleEnabled
			info.GrayLevel = entry.Settings.GrayLevel
		}
		data.Slots = append(data.Slots, info)
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func parseSlotPayload(raw json.RawMessage) (int, error) {
	var payload SlotPayload
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing slot payload")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("invalid slot payload: %w", err)
	}
	if payload.Slot < 0 || payload.Slot >= slots.NumSlots {
		return 0, fmt.Errorf("slot %d out of range", payload.Slot)
	}
	return payload.Slot, nil
}

func (s *Server) sendError(conn net.Conn, msg string) {
	resp := NewErrorResponse(msg)
	data, err := resp.Marshal()
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
