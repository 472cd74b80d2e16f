package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client provides IPC client functionality for communicating with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request to the daemon and returns the response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon (is it running?): %w", err)
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
		return nil, fmt.Errorf("%s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) slotCommand(cmd CommandType, slot int) (*Response, error) {
	payload, err := json.Marshal(SlotPayload{Slot: slot})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.sendRequest(&Request{Command: cmd, Payload: payload})
}

// Status queries the daemon for its current selection and filter state.
func (c *Client) Status() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Slots returns the daemon's view of the saved slot table.
func (c *Client) Slots() (*SlotsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetSlots})
	if err != nil {
		return nil, err
	}

	var data SlotsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse slots data: %w", err)
	}
	return &data, nil
}

// LoadSlot applies a saved rectangle and its settings.
func (c *Client) LoadSlot(slot int) error {
	_, err := c.slotCommand(CommandLoadSlot, slot)
	return err
}

// SaveSlot stores the current selection into the given slot.
func (c *Client) SaveSlot(slot int) error {
	_, err := c.slotCommand(CommandSaveSlot, slot)
	return err
}

// Cycle advances to the next saved slot.
func (c *Client) Cycle() error {
	_, err := c.sendRequest(&Request{Command: CommandCycle})
	return err
}

// ToggleInvert flips color inversion on the current selection.
func (c *Client) ToggleInvert() error {
	_, err := c.sendRequest(&Request{Command: CommandToggleInvert})
	return err
}

// ToggleGrayscale flips grayscale on the current selection.
func (c *Client) ToggleGrayscale() error {
	_, err := c.sendRequest(&Request{Command: CommandToggleGrayscale})
	return err
}

// CycleWhiteLevel steps to the next brightness level.
func (c *Client) CycleWhiteLevel() error {
	_, err := c.sendRequest(&Request{Command: CommandCycleWhiteLevel})
	return err
}

// TogglePin toggles click-through pinning of the filter window.
func (c *Client) TogglePin() error {
	_, err := c.sendRequest(&Request{Command: CommandTogglePin})
	return err
}

// Reset clears the selection and returns to the idle state.
func (c *Client) Reset() error {
	_, err := c.sendRequest(&Request{Command: CommandReset})
	return err
}
