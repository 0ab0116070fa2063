// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package wire

import (
	"fmt"
	"strings"
)

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f *Frame) string {
	timestamp := f.timestamp.Format("15:04:05.000")
	name := FormatFrameID(f.id)

	result := fmt.Sprintf("[%s] %s (0x%02X) len=%d\n", timestamp, name, f.id, len(f.payload))

	if detail := formatPayload(f); detail != "" {
		result += detail
	}

	return result
}

// FormatFrameID returns the human-readable name for a frame identifier
func FormatFrameID(id uint8) string {
	switch id {
	case CmdProtocolVersion:
		return "PROTOCOL_VERSION"
	case CmdFirmwareVersion:
		return "FIRMWARE_VERSION"
	case CmdPowerState:
		return "GET_POWER_STATE"
	case CmdPowerIntent:
		return "SET_POWER_INTENT"
	case CmdClearFault:
		return "CLEAR_FAULT"
	case CmdRailStatus:
		return "GET_RAIL_STATUS"
	case CmdLedModeGet:
		return "GET_LED_MODE"
	case CmdLedModeSet:
		return "SET_LED_MODE"
	case CmdResetRequest:
		return "REQUEST_RESET"
	case CmdEventLog:
		return "GET_EVENT_LOG"
	case CmdBusStats:
		return "GET_BUS_STATS"
	case CmdErrMalformed:
		return "ERROR_MALFORMED_REQUEST"
	case CmdErrUnsupported:
		return "ERROR_UNSUPPORTED_COMMAND"
	case CmdErrNotApplicable:
		return "ERROR_NOT_APPLICABLE"
	case CmdErrFaultActive:
		return "ERROR_FAULT_ACTIVE"
	}
	if id&RspFlag != 0 {
		return FormatFrameID(id&^RspFlag) + "_RSP"
	}
	return "UNKNOWN"
}

// FormatPowerState returns the human-readable name for a power state byte
func FormatPowerState(state uint8) string {
	switch state {
	case PowerOff:
		return "OFF"
	case PowerPoweringOn:
		return "POWERING_ON"
	case PowerOn:
		return "ON"
	case PowerPoweringOff:
		return "POWERING_OFF"
	case PowerFault:
		return "FAULT"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", state)
	}
}

// FormatLedMode returns the human-readable name for a LED mode byte
func FormatLedMode(mode uint8) string {
	switch mode {
	case LedOff:
		return "OFF"
	case LedSolidOn:
		return "SOLID_ON"
	case LedSlowBlink:
		return "SLOW_BLINK"
	case LedFastBlink:
		return "FAST_BLINK"
	case LedPulse:
		return "PULSE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", mode)
	}
}

// FormatEventKind returns the human-readable name for an event kind
func FormatEventKind(kind uint8) string {
	switch kind {
	case EventResetPress:
		return "RESET_PRESS"
	case EventResetRelease:
		return "RESET_RELEASE"
	case EventResetPulse:
		return "RESET_PULSE"
	case EventPowerPress:
		return "POWER_PRESS"
	case EventPowerRelease:
		return "POWER_RELEASE"
	case EventPowerOn:
		return "POWER_ON"
	case EventPowerOff:
		return "POWER_OFF"
	case EventFault:
		return "FAULT"
	case EventFaultCleared:
		return "FAULT_CLEARED"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", kind)
	}
}

func formatPayload(f *Frame) string {
	payload := f.payload

	switch f.id {
	case CmdPowerState | RspFlag, CmdPowerIntent | RspFlag, CmdClearFault | RspFlag:
		if len(payload) == 1 {
			return fmt.Sprintf("  State: %s\n", FormatPowerState(payload[0]))
		}

	case CmdLedModeGet | RspFlag, CmdLedModeSet | RspFlag:
		if len(payload) == 1 {
			return fmt.Sprintf("  Mode: %s\n", FormatLedMode(payload[0]))
		}

	case CmdPowerIntent:
		if len(payload) == 1 {
			names := map[uint8]string{IntentOff: "OFF", IntentOn: "ON", IntentStandby: "STANDBY"}
			if n, ok := names[payload[0]]; ok {
				return fmt.Sprintf("  Intent: %s\n", n)
			}
		}

	case CmdLedModeSet:
		if len(payload) == 1 {
			return fmt.Sprintf("  Mode: %s\n", FormatLedMode(payload[0]))
		}

	case CmdProtocolVersion | RspFlag:
		if len(payload) == 3 {
			return fmt.Sprintf("  Version: %d.%d.%d\n", payload[0], payload[1], payload[2])
		}

	case CmdFirmwareVersion | RspFlag:
		s, err := ParseFirmwareVersionResponse(f)
		if err == nil {
			return fmt.Sprintf("  Firmware: %s\n", s)
		}

	case CmdRailStatus | RspFlag:
		rails, err := DecodeRailStatus(payload)
		if err != nil {
			return fmt.Sprintf("  (bad rail status: %v)\n", err)
		}
		var b strings.Builder
		for _, r := range rails {
			mark := "valid"
			if !r.Valid {
				mark = "INVALID"
			}
			fmt.Fprintf(&b, "  Rail %-6s %5d mV  %s\n", r.Name, r.Millivolts, mark)
		}
		return b.String()

	case CmdEventLog | RspFlag:
		events, err := DecodeEventLog(payload)
		if err != nil {
			return fmt.Sprintf("  (bad event log: %v)\n", err)
		}
		var b strings.Builder
		for _, ev := range events {
			outcome := ""
			if ev.Outcome == OutcomeNotApplicable {
				outcome = " (not applicable)"
			}
			fmt.Fprintf(&b, "  tick %8d  %s%s\n", ev.Tick, FormatEventKind(ev.Kind), outcome)
		}
		return b.String()

	case CmdBusStats | RspFlag:
		s, err := DecodeBusStats(payload)
		if err != nil {
			return fmt.Sprintf("  (bad bus stats: %v)\n", err)
		}
		return fmt.Sprintf("  OK: %d, CRC errors: %d, Framing errors: %d, Overruns: %d, Underruns: %d, Rejects: %d\n",
			s.FramesOK, s.CRCErrors, s.FramingErrors, s.Overruns, s.Underruns, s.Rejects)

	case CmdErrMalformed, CmdErrUnsupported, CmdErrFaultActive:
		if len(payload) >= 1 {
			return fmt.Sprintf("  Request: %s (0x%02X)\n", FormatFrameID(payload[0]), payload[0])
		}

	case CmdErrNotApplicable:
		if len(payload) >= 2 {
			return fmt.Sprintf("  Request: %s (0x%02X), State: %s\n",
				FormatFrameID(payload[0]), payload[0], FormatPowerState(payload[1]))
		}
	}

	if len(payload) == 0 {
		return "  (no payload)\n"
	}

	// Default: hex dump
	result := "  Payload: "
	for i, b := range payload {
		if i > 0 && i%16 == 0 {
			result += "\n           "
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result + "\n"
}
