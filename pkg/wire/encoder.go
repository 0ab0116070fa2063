// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import "fmt"

// Encode builds the raw wire form of a frame: id, length, payload, CRC-16
// (big-endian). Encoding is deterministic: the same id/payload pair always
// produces identical bytes, so firmware and host can be tested against the
// same fixtures. The only failure is an oversize payload.
func Encode(id uint8, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	frame := make([]byte, 0, len(payload)+FrameOverhead)
	frame = append(frame, id, uint8(len(payload)))
	frame = append(frame, payload...)

	crc := CalculateCRC(frame)
	frame = append(frame, byte(crc>>8), byte(crc&0xFF))

	return frame, nil
}

// EncodeFrame encodes an existing Frame back to raw wire form.
func EncodeFrame(f *Frame) ([]byte, error) {
	return Encode(f.id, f.payload)
}

// Decode validates and decodes one raw frame from a complete buffer, as
// handed over by the bus transport adapter. Any structural or integrity
// mismatch yields an error wrapping ErrCorruptFrame, never a partially
// populated Frame.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) < FrameOverhead {
		return nil, fmt.Errorf("%w: %d bytes is below minimum frame size %d", ErrCorruptFrame, len(buf), FrameOverhead)
	}
	if len(buf) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds maximum frame size %d", ErrCorruptFrame, len(buf), MaxFrameSize)
	}

	length := int(buf[1])
	if length != len(buf)-FrameOverhead {
		return nil, fmt.Errorf("%w: length field %d disagrees with %d payload bytes", ErrCorruptFrame, length, len(buf)-FrameOverhead)
	}

	received := uint16(buf[len(buf)-2])<<8 | uint16(buf[len(buf)-1])
	calculated := CalculateCRC(buf[:len(buf)-2])
	if received != calculated {
		return nil, fmt.Errorf("%w: CRC mismatch: expected 0x%04X, got 0x%04X", ErrCorruptFrame, calculated, received)
	}

	payload := make([]byte, length)
	copy(payload, buf[2:2+length])

	f := NewFrame(buf[0], payload)
	f.crc = received
	return f, nil
}

// Stuff wraps a raw frame in stream framing: START, byte-stuffed frame,
// END. Used on byte-stream transports where frame boundaries are not
// preserved by the medium.
func Stuff(frame []byte) []byte {
	stuffed := make([]byte, 0, len(frame)*2+2)
	stuffed = append(stuffed, StartByte)
	for _, b := range frame {
		if b == StartByte || b == EndByte || b == EscByte {
			stuffed = append(stuffed, EscByte, b^EscXor)
		} else {
			stuffed = append(stuffed, b)
		}
	}
	return append(stuffed, EndByte)
}
