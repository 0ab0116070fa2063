// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"errors"
	"fmt"
	"time"
)

// ErrCorruptFrame is returned (wrapped) whenever a buffer fails integrity
// or structural validation. Callers discard the frame and, per the
// protocol, send no response; the host retries at the next transaction.
var ErrCorruptFrame = errors.New("corrupt frame")

// Frame represents one decoded unit of the Auklet bus protocol.
type Frame struct {
	id        uint8
	payload   []byte
	crc       uint16
	timestamp time.Time
}

// NewFrame creates a frame from an identifier and payload. The CRC is
// computed on encode; frames built locally always carry a valid one.
func NewFrame(id uint8, payload []byte) *Frame {
	return &Frame{
		id:        id,
		payload:   payload,
		crc:       frameCRC(id, payload),
		timestamp: time.Now(),
	}
}

// ID returns the frame's command or response identifier.
func (f *Frame) ID() uint8 {
	return f.id
}

// Payload returns the frame's payload bytes.
func (f *Frame) Payload() []byte {
	return f.payload
}

// CRC returns the frame's integrity check value.
func (f *Frame) CRC() uint16 {
	return f.crc
}

// Timestamp returns the frame's decode timestamp.
func (f *Frame) Timestamp() time.Time {
	return f.timestamp
}

// IsResponse returns true if the frame carries a response identifier
// (success or error).
func (f *Frame) IsResponse() bool {
	return f.id&RspFlag != 0 || f.IsError()
}

// IsError returns true if the frame carries an error response identifier.
func (f *Frame) IsError() bool {
	return f.id >= CmdErrMalformed && f.id <= CmdErrFaultActive
}

// RequestID returns the request identifier a response frame answers.
// For error responses that is the first payload byte; for success
// responses the RspFlag bit is cleared.
func (f *Frame) RequestID() (uint8, error) {
	if f.IsError() {
		if len(f.payload) < 1 {
			return 0, fmt.Errorf("error response 0x%02X has no request id", f.id)
		}
		return f.payload[0], nil
	}
	if f.id&RspFlag != 0 {
		return f.id &^ RspFlag, nil
	}
	return 0, fmt.Errorf("frame 0x%02X is not a response", f.id)
}

// frameCRC computes the trailing check field for an id/payload pair.
func frameCRC(id uint8, payload []byte) uint16 {
	buf := make([]byte, 0, 2+len(payload))
	buf = append(buf, id, uint8(len(payload)))
	buf = append(buf, payload...)
	return CalculateCRC(buf)
}
