package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetSlots        CommandType = "GET_SLOTS"
	CommandLoadSlot        CommandType = "LOAD_SLOT"
	CommandSaveSlot        CommandType = "SAVE_SLOT"
	CommandCycle           CommandType = "CYCLE"
	CommandToggleInvert    CommandType = "TOGGLE_INVERT"
	CommandToggleGrayscale CommandType = "TOGGLE_GRAYSCALE"
	CommandCycleWhiteLevel CommandType = "CYCLE_WHITE_LEVEL"
	CommandTogglePin       CommandType = "TOGGLE_PIN"
	CommandReset           CommandType = "RESET"
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

// RegionInfo is the selected client-area rectangle.
type RegionInfo struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	SelectionState    string      `json:"selection_state"`
	Region            *RegionInfo `json:"region,omitempty"`
	InvertEnabled     bool        `json:"invert_enabled"`
	GrayscaleEnabled  bool        `json:"grayscale_enabled"`
	GrayLevel         int         `json:"gray_level"`
	BrightnessPercent int         `json:"brightness_percent"`
	Pinned            bool        `json:"pinned"`
	UptimeSeconds     int64       `json:"uptime_seconds"`
	DaemonRunning     bool        `json:"daemon_running"`
}

// SlotInfo is one saved slot as returned by GET_SLOTS.
type SlotInfo struct {
	Index     int  `json:"index"`
	Valid     bool `json:"valid"`
	Left      int  `json:"left,omitempty"`
	Top       int  `json:"top,omitempty"`
	Right     int  `json:"right,omitempty"`
	Bottom    int  `json:"bottom,omitempty"`
	Invert    bool `json:"invert,omitempty"`
	Grayscale bool `json:"grayscale,omitempty"`
	GrayLevel int  `json:"gray_level,omitempty"`
}

// SlotsData represents the data returned by GET_SLOTS
type SlotsData struct {
	Slots []SlotInfo `json:"slots"`
}

// SlotPayload carries the slot index for LOAD_SLOT and SAVE_SLOT.
type SlotPayload struct {
	Slot int `json:"slot"`
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
