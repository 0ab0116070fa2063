// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"bytes"
	"errors"
	"testing"
)

// ============================================================
// CRC Tests
// ============================================================

func TestCalculateCRC_Empty(t *testing.T) {
	crc := CalculateCRC([]byte{})
	if crc != crcInitial {
		t.Errorf("CRC of empty data should be initial value, got 0x%04X", crc)
	}
}

func TestCalculateCRC_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "ASCII '123456789'",
			data:     []byte("123456789"),
			expected: 0x29B1, // Standard CRC-16-CCITT check value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crc := CalculateCRC(tt.data)
			if crc != tt.expected {
				t.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", tt.expected, crc)
			}
		})
	}
}

func TestCalculateCRC_Deterministic(t *testing.T) {
	data := []byte{0x10, 0x30, 0x01, 0x02, 0x03, 0x04}
	crc1 := CalculateCRC(data)
	crc2 := CalculateCRC(data)
	if crc1 != crc2 {
		t.Errorf("CRC should be deterministic: 0x%04X != 0x%04X", crc1, crc2)
	}
}

// ============================================================
// Encode / Decode Tests
// ============================================================

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		id      uint8
		payload []byte
	}{
		{name: "no payload", id: CmdPowerState, payload: nil},
		{name: "one byte", id: CmdPowerIntent, payload: []byte{IntentOn}},
		{name: "error response", id: CmdErrNotApplicable, payload: []byte{CmdResetRequest, PowerOff}},
		{name: "max payload", id: CmdFirmwareVersion | RspFlag, payload: bytes.Repeat([]byte{0xAB}, MaxPayloadSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.id, tt.payload)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if len(raw) != len(tt.payload)+FrameOverhead {
				t.Errorf("expected %d raw bytes, got %d", len(tt.payload)+FrameOverhead, len(raw))
			}

			f, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if f.ID() != tt.id {
				t.Errorf("id mismatch: expected 0x%02X, got 0x%02X", tt.id, f.ID())
			}
			if !bytes.Equal(f.Payload(), tt.payload) {
				t.Errorf("payload mismatch: expected % X, got % X", tt.payload, f.Payload())
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(CmdEventLog, []byte{8, 1})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	b, err := Encode(CmdEventLog, []byte{8, 1})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("encoding should be deterministic: % X != % X", a, b)
	}
}

func TestEncode_OversizePayload(t *testing.T) {
	_, err := Encode(CmdPowerState, make([]byte, MaxPayloadSize+1))
	if err == nil {
		t.Error("expected error for oversize payload")
	}
}

func TestDecode_ShortBuffer(t *testing.T) {
	for n := 0; n < FrameOverhead; n++ {
		if _, err := Decode(make([]byte, n)); !errors.Is(err, ErrCorruptFrame) {
			t.Errorf("expected ErrCorruptFrame for %d bytes, got %v", n, err)
		}
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	raw, err := Encode(CmdPowerIntent, []byte{IntentOn})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	raw[1] = 2 // claim two payload bytes, buffer carries one
	if _, err := Decode(raw); !errors.Is(err, ErrCorruptFrame) {
		t.Errorf("expected ErrCorruptFrame, got %v", err)
	}
}

// Every single-bit corruption of a valid frame must be rejected. Flipping
// a bit may also break the structure (length field), which counts as a
// rejection too.
func TestDecode_SingleBitFlip(t *testing.T) {
	raw, err := Encode(CmdPowerIntent, []byte{IntentOn, 0x55, 0xAA})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	for byteIdx := 0; byteIdx < len(raw); byteIdx++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(raw))
			copy(corrupted, raw)
			corrupted[byteIdx] ^= 1 << bit

			if _, err := Decode(corrupted); !errors.Is(err, ErrCorruptFrame) {
				t.Errorf("bit %d of byte %d: corruption not detected (err=%v)", bit, byteIdx, err)
			}
		}
	}
}

// ============================================================
// Response parsing tests
// ============================================================

func TestCheckResponse(t *testing.T) {
	ok := NewFrame(CmdPowerState|RspFlag, []byte{PowerOn})
	if err := CheckResponse(ok, CmdPowerState); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	mismatch := NewFrame(CmdLedModeGet|RspFlag, []byte{LedOff})
	if err := CheckResponse(mismatch, CmdPowerState); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestCheckResponse_ErrorFrames(t *testing.T) {
	tests := []struct {
		name      string
		frame     *Frame
		wantCode  uint8
		wantReq   uint8
		wantState uint8
	}{
		{
			name:     "unsupported",
			frame:    NewFrame(CmdErrUnsupported, []byte{0x7B}),
			wantCode: CmdErrUnsupported,
			wantReq:  0x7B,
		},
		{
			name:      "not applicable carries state",
			frame:     NewFrame(CmdErrNotApplicable, []byte{CmdResetRequest, PowerOff}),
			wantCode:  CmdErrNotApplicable,
			wantReq:   CmdResetRequest,
			wantState: PowerOff,
		},
		{
			name:     "fault active",
			frame:    NewFrame(CmdErrFaultActive, []byte{CmdPowerIntent}),
			wantCode: CmdErrFaultActive,
			wantReq:  CmdPowerIntent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse(tt.frame, CmdPowerState)
			var rspErr *ResponseError
			if !errors.As(err, &rspErr) {
				t.Fatalf("expected *ResponseError, got %v", err)
			}
			if rspErr.Code != tt.wantCode || rspErr.RequestID != tt.wantReq || rspErr.State != tt.wantState {
				t.Errorf("got code=0x%02X req=0x%02X state=0x%02X", rspErr.Code, rspErr.RequestID, rspErr.State)
			}
			if rspErr.Error() == "" {
				t.Error("empty error string")
			}
		})
	}
}

func TestParseByteResponse(t *testing.T) {
	f := NewFrame(CmdLedModeSet|RspFlag, []byte{LedPulse})
	mode, err := ParseByteResponse(f, CmdLedModeSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != LedPulse {
		t.Errorf("expected LedPulse, got 0x%02X", mode)
	}

	bad := NewFrame(CmdLedModeSet|RspFlag, []byte{LedPulse, 0x00})
	if _, err := ParseByteResponse(bad, CmdLedModeSet); err == nil {
		t.Error("expected error for 2-byte payload")
	}
}

func TestParseVersionResponse(t *testing.T) {
	f := NewFrame(CmdProtocolVersion|RspFlag, []byte{ProtocolVersionMajor, ProtocolVersionMinor, ProtocolVersionPatch})
	major, minor, patch, err := ParseVersionResponse(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if major != ProtocolVersionMajor || minor != ProtocolVersionMinor || patch != ProtocolVersionPatch {
		t.Errorf("got %d.%d.%d", major, minor, patch)
	}
}

func TestParseFirmwareVersionResponse(t *testing.T) {
	payload := append([]byte("auklet-1.0.0"), 0, 0, 0)
	f := NewFrame(CmdFirmwareVersion|RspFlag, payload)
	s, err := ParseFirmwareVersionResponse(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "auklet-1.0.0" {
		t.Errorf("expected trimmed version string, got %q", s)
	}
}

func TestRequestID(t *testing.T) {
	rsp := NewFrame(CmdRailStatus|RspFlag, nil)
	id, err := rsp.RequestID()
	if err != nil || id != CmdRailStatus {
		t.Errorf("got id=0x%02X err=%v", id, err)
	}

	errRsp := NewFrame(CmdErrMalformed, []byte{CmdEventLog})
	id, err = errRsp.RequestID()
	if err != nil || id != CmdEventLog {
		t.Errorf("got id=0x%02X err=%v", id, err)
	}

	req := NewFrame(CmdRailStatus, nil)
	if _, err := req.RequestID(); err == nil {
		t.Error("expected error for request frame")
	}
}
