// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"fmt"
	"time"
)

// Decoder states
const (
	stateIdle = iota
	stateID
	stateLength
	statePayload
	stateCRC1
	stateCRC2
	stateDone
)

// Decoder implements the stream-framing packet decoder state machine.
// It consumes one byte at a time from a serial or websocket byte stream,
// handles byte stuffing, and yields complete CRC-validated frames. The raw
// management bus does not use it; there the transport adapter hands whole
// buffers to Decode.
type Decoder struct {
	state       int
	buffer      []byte
	bufferIndex int
	escapeNext  bool
	payloadLen  int
	rawBuffer   []byte // accumulate raw bytes including framing
}

// NewDecoder creates a new stream decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		state:     stateIdle,
		buffer:    make([]byte, MaxFrameSize),
		rawBuffer: make([]byte, 0, MaxFrameSize*2),
	}
}

// Reset resets the decoder state to idle.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.bufferIndex = 0
	d.escapeNext = false
	d.payloadLen = 0
	d.rawBuffer = d.rawBuffer[:0]
}

// RawBytes returns the accumulated raw bytes since the last frame.
func (d *Decoder) RawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed frame, or nil if the frame is incomplete.
// Returns an error if decoding fails; the decoder resynchronises on the
// next START byte.
func (d *Decoder) DecodeByte(b byte) (*Frame, error) {
	d.rawBuffer = append(d.rawBuffer, b)

	// Handle byte stuffing
	if b == EscByte && !d.escapeNext {
		d.escapeNext = true
		return nil, nil
	}

	originalB := b
	if d.escapeNext {
		b ^= EscXor
		d.escapeNext = false
	}

	// Handle framing bytes
	if originalB == StartByte && !d.escapeNext {
		d.Reset()
		d.rawBuffer = append(d.rawBuffer[:0], originalB)
		d.state = stateID
		return nil, nil
	}

	if originalB == EndByte && !d.escapeNext {
		if d.state == stateDone {
			// Frame complete - validate structure and CRC
			frame, err := Decode(d.buffer[:d.bufferIndex])
			d.Reset()
			if err != nil {
				return nil, err
			}
			frame.timestamp = time.Now()
			return frame, nil
		}
		d.Reset()
		return nil, fmt.Errorf("%w: unexpected END byte in state %d", ErrCorruptFrame, d.state)
	}

	switch d.state {
	case stateIdle:
		// Waiting for START byte (or draining bytes after CRC2)
		return nil, nil

	case stateID:
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		d.state = stateLength
		return nil, nil

	case stateLength:
		if int(b) > MaxPayloadSize {
			d.Reset()
			return nil, fmt.Errorf("%w: invalid length %d (max %d)", ErrCorruptFrame, b, MaxPayloadSize)
		}
		d.payloadLen = int(b)
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		if d.payloadLen == 0 {
			d.state = stateCRC1
		} else {
			d.state = statePayload
		}
		return nil, nil

	case statePayload:
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		if d.bufferIndex >= 2+d.payloadLen {
			d.state = stateCRC1
		}
		return nil, nil

	case stateCRC1:
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		d.state = stateCRC2
		return nil, nil

	case stateCRC2:
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		// Wait for END byte
		d.state = stateDone
		return nil, nil

	case stateDone:
		// Anything but END between CRC and frame boundary is a framing error
		d.Reset()
		return nil, fmt.Errorf("%w: trailing byte 0x%02X after CRC", ErrCorruptFrame, b)

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid decoder state: %d", d.state)
	}
}
