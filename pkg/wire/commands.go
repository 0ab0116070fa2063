// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import "fmt"

// Request builder functions create Frame structs ready for encoding.
// These are convenience wrappers around NewFrame that ensure correct
// payload usage per the Auklet bus protocol specification.

// NewProtocolVersionRequest creates a protocol-version request (0x01).
// The BMC responds with [major, minor, patch].
func NewProtocolVersionRequest() *Frame {
	return NewFrame(CmdProtocolVersion, nil)
}

// NewFirmwareVersionRequest creates a firmware-version request (0x02).
// The BMC responds with its version string, at most 32 bytes.
func NewFirmwareVersionRequest() *Frame {
	return NewFrame(CmdFirmwareVersion, nil)
}

// NewPowerStateRequest creates a get-power-state request (0x10).
func NewPowerStateRequest() *Frame {
	return NewFrame(CmdPowerState, nil)
}

// NewPowerIntent creates a set-power-intent request (0x11).
// Intent values: IntentOff (0), IntentOn (1), IntentStandby (2).
// The response carries the authoritative power state after the intent was
// submitted; sequencing is asynchronous, so the state may still be a
// transitional one.
func NewPowerIntent(intent uint8) *Frame {
	return NewFrame(CmdPowerIntent, []byte{intent})
}

// NewClearFault creates a clear-fault request (0x12).
// Only meaningful while the BMC reports PowerFault; the fault latch is
// released and the sequencer returns to PowerOff.
func NewClearFault() *Frame {
	return NewFrame(CmdClearFault, nil)
}

// NewRailStatusRequest creates a get-rail-status request (0x20).
// The response payload is a CBOR rail list; see DecodeRailStatus.
func NewRailStatusRequest() *Frame {
	return NewFrame(CmdRailStatus, nil)
}

// NewLedModeRequest creates a get-led-mode request (0x30).
func NewLedModeRequest() *Frame {
	return NewFrame(CmdLedModeGet, nil)
}

// NewSetLedMode creates a set-led-mode request (0x31).
// Overrides are honored only while the power state is PowerOn; otherwise
// the BMC answers not-applicable.
func NewSetLedMode(mode uint8) *Frame {
	return NewFrame(CmdLedModeSet, []byte{mode})
}

// NewResetRequest creates a request-reset request (0x40).
// Accepted only while PowerOn; the BMC then drives the host reset line low
// for the configured pulse duration.
func NewResetRequest() *Frame {
	return NewFrame(CmdResetRequest, nil)
}

// NewEventLogRequest creates a get-event-log request (0x41) for at most
// maxEntries entries, newest first. The response payload is a CBOR event
// list; see DecodeEventLog.
//
// seq distinguishes a fresh poll from a retry: the host picks a new value
// for every poll and reuses the previous one when retrying a lost
// response. The BMC resends the cached response for a repeated sequence
// value instead of draining the log again.
func NewEventLogRequest(maxEntries, seq uint8) *Frame {
	return NewFrame(CmdEventLog, []byte{maxEntries, seq})
}

// NewBusStatsRequest creates a get-bus-stats request (0x50).
// The response payload is a CBOR counter map; see DecodeBusStats.
func NewBusStatsRequest() *Frame {
	return NewFrame(CmdBusStats, nil)
}

// Response parsing helpers

// ResponseError describes an error response frame as a Go error.
type ResponseError struct {
	Code      uint8 // CmdErr* identifier
	RequestID uint8
	State     uint8 // power state, CmdErrNotApplicable only
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	switch e.Code {
	case CmdErrMalformed:
		return fmt.Sprintf("malformed request 0x%02X", e.RequestID)
	case CmdErrUnsupported:
		return fmt.Sprintf("unsupported command 0x%02X", e.RequestID)
	case CmdErrNotApplicable:
		return fmt.Sprintf("request 0x%02X not applicable in power state %s",
			e.RequestID, FormatPowerState(e.State))
	case CmdErrFaultActive:
		return fmt.Sprintf("request 0x%02X rejected: fault active", e.RequestID)
	default:
		return fmt.Sprintf("unknown error response 0x%02X", e.Code)
	}
}

// CheckResponse validates that a frame is the success response for the
// given request identifier. Error responses come back as *ResponseError.
func CheckResponse(f *Frame, requestID uint8) error {
	if f.IsError() {
		e := &ResponseError{Code: f.id}
		if len(f.payload) >= 1 {
			e.RequestID = f.payload[0]
		}
		if f.id == CmdErrNotApplicable && len(f.payload) >= 2 {
			e.State = f.payload[1]
		}
		return e
	}
	if f.id != requestID|RspFlag {
		return fmt.Errorf("response 0x%02X does not match request 0x%02X", f.id, requestID)
	}
	return nil
}

// ParseByteResponse validates a single-byte success response (power state,
// LED mode) and returns that byte.
func ParseByteResponse(f *Frame, requestID uint8) (uint8, error) {
	if err := CheckResponse(f, requestID); err != nil {
		return 0, err
	}
	if len(f.payload) != 1 {
		return 0, fmt.Errorf("expected 1 payload byte for response 0x%02X, got %d", f.id, len(f.payload))
	}
	return f.payload[0], nil
}

// ParseVersionResponse validates a protocol-version response and returns
// its major/minor/patch triple.
func ParseVersionResponse(f *Frame) (major, minor, patch uint8, err error) {
	if err := CheckResponse(f, CmdProtocolVersion); err != nil {
		return 0, 0, 0, err
	}
	if len(f.payload) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 payload bytes, got %d", len(f.payload))
	}
	return f.payload[0], f.payload[1], f.payload[2], nil
}

// ParseFirmwareVersionResponse validates a firmware-version response and
// returns the version string with trailing NULs removed.
func ParseFirmwareVersionResponse(f *Frame) (string, error) {
	if err := CheckResponse(f, CmdFirmwareVersion); err != nil {
		return "", err
	}
	b := f.payload
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b), nil
}
