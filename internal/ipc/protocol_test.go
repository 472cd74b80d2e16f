package ipc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"LOAD_SLOT","payload":{"slot":3}}`))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Command != CommandLoadSlot {
		t.Errorf("expected LOAD_SLOT, got %s", req.Command)
	}

	var payload SlotPayload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if payload.Slot != 3 {
		t.Errorf("expected slot 3, got %d", payload.Slot)
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	if _, err := ParseRequest([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestResponseRoundTrip(t *testing.T) {
	status := StatusData{
		SelectionState:    "complete",
		Region:            &RegionInfo{Left: 10, Top: 20, Right: 110, Bottom: 120},
		InvertEnabled:     true,
		BrightnessPercent: 100,
		DaemonRunning:     true,
	}

	resp, err := NewOKResponse(status)
	if err != nil {
		t.Fatalf("NewOKResponse failed: %v", err)
	}

	data, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Status != "OK" {
		t.Errorf("expected status OK, got %s", decoded.Status)
	}

	var got StatusData
	if err := json.Unmarshal(decoded.Data, &got); err != nil {
		t.Fatalf("data unmarshal failed: %v", err)
	}
	if got.Region == nil || got.Region.Right != 110 {
		t.Errorf("region did not survive round trip: %+v", got.Region)
	}
	if !got.InvertEnabled {
		t.Error("invert flag lost in round trip")
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("slot 12 out of range")
	if resp.Status != "ERROR" {
		t.Errorf("expected status ERROR, got %s", resp.Status)
	}
	if resp.Error != "slot 12 out of range" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
}
