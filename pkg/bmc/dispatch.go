// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"bytes"
	"errors"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// Dispatcher maps decoded, integrity-checked requests onto the sequencer,
// LED engine and event log, and builds the matching response. It submits
// intent only and reads authoritative state back for the response; a
// state-changing request never assumes the transition happened.
//
// Destructive reads (the event log drains) are protected by a duplicate
// cache: the request carries a poll sequence byte, so a retry of a lost
// response repeats the exact request bytes while a fresh poll does not.
// On a repeat the cached response is resent instead of draining again.
type Dispatcher struct {
	seq     *Sequencer
	monitor *ResetMonitor
	log     *EventLog
	stats   *Stats

	lastReq []byte
	lastRsp *wire.Frame
}

// NewDispatcher wires a dispatcher to the components it drives.
func NewDispatcher(seq *Sequencer, monitor *ResetMonitor, log *EventLog, stats *Stats) *Dispatcher {
	return &Dispatcher{seq: seq, monitor: monitor, log: log, stats: stats}
}

// Dispatch executes one request and returns the response frame. Unknown
// identifiers get an explicit unsupported-command response; a well-formed
// request that is invalid right now gets the matching typed error. Every
// valid frame gets exactly one response.
func (d *Dispatcher) Dispatch(req *wire.Frame, tick uint64) *wire.Frame {
	reqBytes := append([]byte{req.ID()}, req.Payload()...)
	if d.lastRsp != nil && bytes.Equal(reqBytes, d.lastReq) {
		// A retry; resend without re-executing side effects.
		return d.lastRsp
	}
	d.lastReq = nil
	d.lastRsp = nil

	rsp := d.execute(req, tick)

	if rsp.IsError() {
		d.stats.Rejects.Add(1)
	}
	if req.ID() == wire.CmdEventLog && !rsp.IsError() {
		// The only damaging read; cache for retry detection.
		d.lastReq = reqBytes
		d.lastRsp = rsp
	}
	return rsp
}

func (d *Dispatcher) execute(req *wire.Frame, tick uint64) *wire.Frame {
	payload := req.Payload()

	switch req.ID() {
	case wire.CmdProtocolVersion:
		if len(payload) != 0 {
			return malformed(req)
		}
		return ok(req, []byte{wire.ProtocolVersionMajor, wire.ProtocolVersionMinor, wire.ProtocolVersionPatch})

	case wire.CmdFirmwareVersion:
		if len(payload) != 0 {
			return malformed(req)
		}
		v := []byte(FirmwareVersion)
		if len(v) > FirmwareVersionSize {
			v = v[:FirmwareVersionSize]
		}
		return ok(req, v)

	case wire.CmdPowerState:
		if len(payload) != 0 {
			return malformed(req)
		}
		return ok(req, []byte{uint8(d.seq.State())})

	case wire.CmdPowerIntent:
		if len(payload) != 1 {
			return malformed(req)
		}
		var err error
		switch payload[0] {
		case wire.IntentOff:
			err = d.seq.RequestPowerOff(tick)
		case wire.IntentOn:
			err = d.seq.RequestPowerOn(tick, false)
		case wire.IntentStandby:
			err = d.seq.RequestPowerOn(tick, true)
		default:
			return malformed(req)
		}
		if errors.Is(err, ErrFaultLatched) {
			return errFrame(wire.CmdErrFaultActive, req.ID())
		}
		return ok(req, []byte{uint8(d.seq.State())})

	case wire.CmdClearFault:
		if len(payload) != 0 {
			return malformed(req)
		}
		// Clearing while not faulted is harmless; report the state.
		_ = d.seq.ClearFault(tick)
		return ok(req, []byte{uint8(d.seq.State())})

	case wire.CmdRailStatus:
		if len(payload) != 0 {
			return malformed(req)
		}
		data, err := wire.EncodeRailStatus(d.seq.Rails())
		if err != nil {
			return malformed(req)
		}
		return ok(req, data)

	case wire.CmdLedModeGet:
		if len(payload) != 0 {
			return malformed(req)
		}
		return ok(req, []byte{uint8(d.seq.LedMode())})

	case wire.CmdLedModeSet:
		if len(payload) != 1 || !ValidLedMode(payload[0]) {
			return malformed(req)
		}
		if err := d.seq.SetLedOverride(LedMode(payload[0])); err != nil {
			return notApplicable(req, d.seq.State())
		}
		return ok(req, []byte{uint8(d.seq.LedMode())})

	case wire.CmdResetRequest:
		if len(payload) != 0 {
			return malformed(req)
		}
		if err := d.monitor.RequestPulse(tick); err != nil {
			return notApplicable(req, d.seq.State())
		}
		return ok(req, nil)

	case wire.CmdEventLog:
		// payload[1] is the poll sequence byte; it only matters to the
		// duplicate cache, any value is well formed.
		if len(payload) != 2 || payload[0] == 0 {
			return malformed(req)
		}
		events := d.log.Peek(int(payload[0]))
		data, kept, err := wire.EncodeEventLog(events)
		if err != nil {
			return malformed(req)
		}
		// Commit only what the response actually carries; entries that
		// did not fit stay in the log for the next poll.
		d.log.Discard(kept)
		return ok(req, data)

	case wire.CmdBusStats:
		if len(payload) != 0 {
			return malformed(req)
		}
		data, err := wire.EncodeBusStats(d.stats.Snapshot())
		if err != nil {
			return malformed(req)
		}
		return ok(req, data)

	default:
		return errFrame(wire.CmdErrUnsupported, req.ID())
	}
}

func ok(req *wire.Frame, payload []byte) *wire.Frame {
	return wire.NewFrame(req.ID()|wire.RspFlag, payload)
}

func malformed(req *wire.Frame) *wire.Frame {
	return errFrame(wire.CmdErrMalformed, req.ID())
}

func notApplicable(req *wire.Frame, state PowerState) *wire.Frame {
	return wire.NewFrame(wire.CmdErrNotApplicable, []byte{req.ID(), uint8(state)})
}

func errFrame(code uint8, requestID uint8) *wire.Frame {
	return wire.NewFrame(code, []byte{requestID})
}
