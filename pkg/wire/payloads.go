// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Structured response payloads are CBOR-encoded so the layout can grow
// without renumbering the protocol. Each schema is an array of small
// fixed-position arrays; firmware encodes, hosts decode, both through this
// file so the two sides cannot drift.

// RailReading is one voltage rail's sensed status.
type RailReading struct {
	_          struct{} `cbor:",toarray"`
	Name       string
	Millivolts uint16
	Valid      bool
}

// EventKind values carried in event log entries.
const (
	EventResetPress   = 0x01
	EventResetRelease = 0x02
	EventResetPulse   = 0x03
	EventPowerPress   = 0x04
	EventPowerRelease = 0x05
	EventPowerOn      = 0x06
	EventPowerOff     = 0x07
	EventFault        = 0x08
	EventFaultCleared = 0x09
)

// Event outcome values.
const (
	OutcomeAccepted      = 0x00
	OutcomeNotApplicable = 0x01
)

// Event is one debounced button or sequencing event as recorded by the
// BMC's bounded event log.
type Event struct {
	_       struct{} `cbor:",toarray"`
	Tick    uint64
	Kind    uint8
	Outcome uint8
}

// BusStats is the set of transport and protocol counters the BMC reports
// via get-bus-stats.
type BusStats struct {
	_             struct{} `cbor:",toarray"`
	FramesOK      uint32
	CRCErrors     uint32
	FramingErrors uint32
	Overruns      uint32
	Underruns     uint32
	Rejects       uint32
}

// EncodeRailStatus encodes a rail list for a get-rail-status response.
func EncodeRailStatus(rails []RailReading) ([]byte, error) {
	data, err := cbor.Marshal(rails)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rail status: %w", err)
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("rail status too large: %d bytes (max %d)", len(data), MaxPayloadSize)
	}
	return data, nil
}

// DecodeRailStatus decodes a get-rail-status response payload.
func DecodeRailStatus(payload []byte) ([]RailReading, error) {
	var rails []RailReading
	if err := cbor.Unmarshal(payload, &rails); err != nil {
		return nil, fmt.Errorf("failed to decode rail status: %w", err)
	}
	return rails, nil
}

// EncodeEventLog encodes events for a get-event-log response and reports
// how many it kept. Events beyond the payload size bound are left off the
// tail (the list is newest first, so the oldest wait); the caller must
// only treat the kept entries as delivered.
func EncodeEventLog(events []Event) ([]byte, int, error) {
	for len(events) > 0 {
		data, err := cbor.Marshal(events)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode event log: %w", err)
		}
		if len(data) <= MaxPayloadSize {
			return data, len(events), nil
		}
		events = events[:len(events)-1]
	}
	data, err := cbor.Marshal([]Event{})
	return data, 0, err
}

// DecodeEventLog decodes a get-event-log response payload.
func DecodeEventLog(payload []byte) ([]Event, error) {
	var events []Event
	if err := cbor.Unmarshal(payload, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event log: %w", err)
	}
	return events, nil
}

// EncodeBusStats encodes counters for a get-bus-stats response.
func EncodeBusStats(s *BusStats) ([]byte, error) {
	data, err := cbor.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bus stats: %w", err)
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("bus stats too large: %d bytes (max %d)", len(data), MaxPayloadSize)
	}
	return data, nil
}

// DecodeBusStats decodes a get-bus-stats response payload.
func DecodeBusStats(payload []byte) (*BusStats, error) {
	var s BusStats
	if err := cbor.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode bus stats: %w", err)
	}
	return &s, nil
}
