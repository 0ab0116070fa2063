// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

// Package wire provides the reference Go implementation of the Auklet bus
// protocol, the command/response protocol spoken between a host computer and
// its Auklet board management controller (BMC).
//
// The package covers frame encoding/decoding, CRC validation, the closed
// command set, and the CBOR payload schemas used by the structured
// responses. It is pure and hardware-independent: firmware, simulator and
// host tooling all build against the same code and the same test fixtures.
package wire

// Protocol version. The protocol-version command reports these three bytes;
// hosts must not assume payload layouts beyond the version they negotiate.
const (
	ProtocolVersionMajor = 1
	ProtocolVersionMinor = 0
	ProtocolVersionPatch = 0
)

// Frame size limits. A raw frame is id + length + payload + CRC-16.
const (
	FrameOverhead  = 4  // id byte + length byte + 2 CRC bytes
	MaxPayloadSize = 58
	MaxFrameSize   = MaxPayloadSize + FrameOverhead
)

// Stream framing bytes, used when frames travel over a byte stream (UART,
// websocket bridge) rather than the raw management bus.
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// CRC-16-CCITT configuration. The trailing check field is the CRC of
// id+length+payload, big-endian. A corrupted frame whose recomputed CRC
// collides with the transmitted one is undetectable; with 16 check bits
// this is an accepted limitation of the protocol.
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Request identifiers (Host → BMC). The set is closed and versioned;
// unknown identifiers yield CmdErrUnsupported.
const (
	CmdProtocolVersion = 0x01
	CmdFirmwareVersion = 0x02
	CmdPowerState      = 0x10
	CmdPowerIntent     = 0x11
	CmdClearFault      = 0x12
	CmdRailStatus      = 0x20
	CmdLedModeGet      = 0x30
	CmdLedModeSet      = 0x31
	CmdResetRequest    = 0x40
	CmdEventLog        = 0x41
	CmdBusStats        = 0x50
)

// RspFlag is OR'd into the request identifier to form the matching success
// response identifier.
const RspFlag = 0x80

// Error response identifiers (BMC → Host). The first payload byte is always
// the identifier of the offending request.
const (
	CmdErrMalformed     = 0xE0
	CmdErrUnsupported   = 0xE1
	CmdErrNotApplicable = 0xE2 // second payload byte carries the power state
	CmdErrFaultActive   = 0xE3
)

// Power intent values carried by CmdPowerIntent.
const (
	IntentOff     = 0x00
	IntentOn      = 0x01
	IntentStandby = 0x02
)

// Power state values as reported on the wire.
const (
	PowerOff         = 0x00
	PowerPoweringOn  = 0x01
	PowerOn          = 0x02
	PowerPoweringOff = 0x03
	PowerFault       = 0x04
)

// LED mode values as carried by CmdLedModeGet/CmdLedModeSet.
const (
	LedOff       = 0x00
	LedSolidOn   = 0x01
	LedSlowBlink = 0x02
	LedFastBlink = 0x03
	LedPulse     = 0x04
)
