// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"bytes"
	"errors"
	"testing"
)

// decodeAll feeds a byte stream through a fresh decoder and collects
// completed frames and errors.
func decodeAll(t *testing.T, stream []byte) ([]*Frame, []error) {
	t.Helper()
	d := NewDecoder()
	var frames []*Frame
	var errs []error
	for _, b := range stream {
		f, err := d.DecodeByte(b)
		if err != nil {
			errs = append(errs, err)
		}
		if f != nil {
			frames = append(frames, f)
		}
	}
	return frames, errs
}

func TestDecoder_SingleFrame(t *testing.T) {
	raw, err := Encode(CmdPowerIntent, []byte{IntentOn})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	frames, errs := decodeAll(t, Stuff(raw))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].ID() != CmdPowerIntent {
		t.Errorf("id mismatch: got 0x%02X", frames[0].ID())
	}
	if !bytes.Equal(frames[0].Payload(), []byte{IntentOn}) {
		t.Errorf("payload mismatch: got % X", frames[0].Payload())
	}
}

func TestDecoder_BackToBackFrames(t *testing.T) {
	var stream []byte
	for _, id := range []uint8{CmdPowerState, CmdRailStatus, CmdEventLog} {
		raw, err := Encode(id, nil)
		if err != nil {
			t.Fatalf("Encode error: %v", err)
		}
		if id == CmdEventLog {
			raw, _ = Encode(id, []byte{8, 1})
		}
		stream = append(stream, Stuff(raw)...)
	}

	frames, errs := decodeAll(t, stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
}

// Payloads containing framing byte values must round-trip through byte
// stuffing.
func TestDecoder_StuffedPayload(t *testing.T) {
	payload := []byte{StartByte, EndByte, EscByte, 0x00, EscByte}
	raw, err := Encode(CmdLedModeSet, payload)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	frames, errs := decodeAll(t, Stuff(raw))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if !bytes.Equal(frames[0].Payload(), payload) {
		t.Errorf("payload mismatch: expected % X, got % X", payload, frames[0].Payload())
	}
}

func TestDecoder_CorruptCRC(t *testing.T) {
	raw, err := Encode(CmdPowerState, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF

	frames, errs := decodeAll(t, Stuff(raw))
	if len(frames) != 0 {
		t.Fatalf("corrupt frame must not decode, got %d frames", len(frames))
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrCorruptFrame) {
		t.Fatalf("expected one ErrCorruptFrame, got %v", errs)
	}
}

// A corrupt frame must not prevent the decoder from resynchronising on the
// next START byte.
func TestDecoder_ResyncAfterGarbage(t *testing.T) {
	raw, err := Encode(CmdPowerState, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	stream := []byte{0x12, 0x34, StartByte, 0xFF} // truncated junk frame
	stream = append(stream, Stuff(raw)...)

	frames, _ := decodeAll(t, stream)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after resync, got %d", len(frames))
	}
	if frames[0].ID() != CmdPowerState {
		t.Errorf("id mismatch: got 0x%02X", frames[0].ID())
	}
}

func TestDecoder_UnexpectedEnd(t *testing.T) {
	_, errs := decodeAll(t, []byte{StartByte, CmdPowerState, EndByte})
	if len(errs) != 1 || !errors.Is(errs[0], ErrCorruptFrame) {
		t.Fatalf("expected ErrCorruptFrame for truncated frame, got %v", errs)
	}
}

func TestDecoder_InvalidLength(t *testing.T) {
	_, errs := decodeAll(t, []byte{StartByte, CmdPowerState, MaxPayloadSize + 1})
	if len(errs) != 1 || !errors.Is(errs[0], ErrCorruptFrame) {
		t.Fatalf("expected ErrCorruptFrame for invalid length, got %v", errs)
	}
}

func TestDecoder_IdleIgnoresNoise(t *testing.T) {
	frames, errs := decodeAll(t, []byte{0x00, 0x55, 0xAA, 0xFF})
	if len(frames) != 0 || len(errs) != 0 {
		t.Errorf("noise outside a frame should be ignored, got frames=%d errs=%v", len(frames), errs)
	}
}
