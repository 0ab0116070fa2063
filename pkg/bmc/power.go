// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"errors"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// PowerState is the sequencer's state. Values match the wire encoding.
type PowerState uint8

const (
	StateOff         PowerState = wire.PowerOff
	StatePoweringOn  PowerState = wire.PowerPoweringOn
	StateOn          PowerState = wire.PowerOn
	StatePoweringOff PowerState = wire.PowerPoweringOff
	StateFault       PowerState = wire.PowerFault
)

// String implements fmt.Stringer.
func (s PowerState) String() string {
	return wire.FormatPowerState(uint8(s))
}

// ErrFaultLatched is returned for power-on intent while the fault latch is
// set; the host must clear the fault first.
var ErrFaultLatched = errors.New("fault latched")

// ErrNotApplicable is returned for requests that are only valid in a power
// state other than the current one.
var ErrNotApplicable = errors.New("not applicable in current power state")

// Sequencer owns the power state machine. It is the sole writer of
// PowerState and of the LED mode: every transition updates the LED to a
// fixed mapping, so the front-panel pattern is always a function of the
// power state. Host LED overrides are honored only while StateOn and are
// dropped on the next transition.
//
// The dispatcher submits intent through the Request* methods; whether and
// when the intent takes effect is decided here, gated on rail validity and
// the sequencing timeouts.
type Sequencer struct {
	policy *Policy
	board  Board
	log    *EventLog
	led    *LedEngine

	state        PowerState
	standby      bool
	ticksInState int
	backfeed     int
	override     bool

	rails []wire.RailReading
}

// NewSequencer creates a sequencer in StateOff with all outputs safe: DC
// power disabled, host held in reset, LED off.
func NewSequencer(policy *Policy, board Board, led *LedEngine, log *EventLog) *Sequencer {
	s := &Sequencer{
		policy: policy,
		board:  board,
		log:    log,
		led:    led,
		state:  StateOff,
		rails:  make([]wire.RailReading, len(policy.Rails)),
	}
	for i, r := range policy.Rails {
		s.rails[i] = wire.RailReading{Name: r.Name}
	}
	board.SetPowerEnable(false)
	board.SetReset(true)
	s.applyLedMapping()
	return s
}

// State returns the current power state.
func (s *Sequencer) State() PowerState {
	return s.state
}

// Standby reports whether the On state is in its standby sub-mode.
func (s *Sequencer) Standby() bool {
	return s.standby
}

// Rails returns the latest rail status snapshot. Read-only to callers.
func (s *Sequencer) Rails() []wire.RailReading {
	out := make([]wire.RailReading, len(s.rails))
	copy(out, s.rails)
	return out
}

// ResetAllowed reports whether a reset pulse may run right now.
func (s *Sequencer) ResetAllowed() bool {
	return s.state == StateOn
}

// LedMode returns the current LED mode.
func (s *Sequencer) LedMode() LedMode {
	return s.led.Mode()
}

// SetLedOverride applies a host-commanded LED mode. Only honored while
// StateOn; the override lasts until the next power state transition.
func (s *Sequencer) SetLedOverride(mode LedMode) error {
	if s.state != StateOn {
		return ErrNotApplicable
	}
	s.override = true
	s.led.SetMode(mode)
	return nil
}

// RequestPowerOn submits power-on intent. While StateOn it only updates
// the standby sub-mode. Returns ErrFaultLatched while StateFault.
func (s *Sequencer) RequestPowerOn(tick uint64, standby bool) error {
	switch s.state {
	case StateFault:
		return ErrFaultLatched
	case StateOff:
		s.standby = standby
		s.enterState(tick, StatePoweringOn)
		return nil
	case StateOn:
		if s.standby != standby {
			s.standby = standby
			if !s.override {
				s.applyLedMapping()
			}
		}
		return nil
	default:
		// Already sequencing; the intent is redundant.
		return nil
	}
}

// RequestPowerOff submits power-off intent.
func (s *Sequencer) RequestPowerOff(tick uint64) error {
	switch s.state {
	case StateOn, StatePoweringOn:
		s.log.Append(tick, wire.EventPowerOff, wire.OutcomeAccepted)
		s.enterState(tick, StatePoweringOff)
		return nil
	case StateFault:
		return ErrFaultLatched
	default:
		return nil
	}
}

// ClearFault releases the fault latch. Only meaningful while StateFault.
func (s *Sequencer) ClearFault(tick uint64) error {
	if s.state != StateFault {
		return ErrNotApplicable
	}
	s.log.Append(tick, wire.EventFaultCleared, wire.OutcomeAccepted)
	s.enterState(tick, StateOff)
	return nil
}

// Tick refreshes the rail snapshot and advances the state machine by one
// tick. Called exactly once per controller tick.
func (s *Sequencer) Tick(tick uint64) {
	s.sampleRails()
	s.ticksInState++

	switch s.state {
	case StatePoweringOn:
		if s.allRailsValid() {
			s.log.Append(tick, wire.EventPowerOn, wire.OutcomeAccepted)
			s.enterState(tick, StateOn)
			return
		}
		if s.ticksInState >= s.policy.PowerOnTimeoutTicks {
			s.fault(tick)
		}

	case StateOn:
		if !s.allRailsValid() {
			// Protective shutdown: a rail dropped out from under the host.
			s.log.Append(tick, wire.EventPowerOff, wire.OutcomeAccepted)
			s.enterState(tick, StatePoweringOff)
		}

	case StatePoweringOff:
		if s.ticksInState >= s.policy.PowerOffSettleTicks {
			s.enterState(tick, StateOff)
		}

	case StateOff:
		// Rails reading valid with the PSU disabled means something is
		// back-powering the board.
		if s.allRailsValid() {
			s.backfeed++
			if s.backfeed >= s.policy.BackfeedFaultTicks {
				s.fault(tick)
			}
		} else {
			s.backfeed = 0
		}

	case StateFault:
		// Latched until ClearFault.
	}
}

func (s *Sequencer) fault(tick uint64) {
	s.log.Append(tick, wire.EventFault, wire.OutcomeAccepted)
	s.enterState(tick, StateFault)
}

// enterState performs the entry actions for a state: drive the power and
// reset outputs, reset per-state counters, drop any LED override and apply
// the fixed PowerState to LedMode mapping.
func (s *Sequencer) enterState(tick uint64, next PowerState) {
	s.state = next
	s.ticksInState = 0
	s.backfeed = 0
	s.override = false

	switch next {
	case StatePoweringOn:
		s.board.SetReset(true)
		s.board.SetPowerEnable(true)
	case StateOn:
		s.board.SetReset(false)
	case StatePoweringOff, StateOff:
		s.board.SetReset(true)
		s.board.SetPowerEnable(false)
	case StateFault:
		s.board.SetReset(true)
		s.board.SetPowerEnable(false)
	}

	s.applyLedMapping()
}

func (s *Sequencer) applyLedMapping() {
	switch s.state {
	case StateOff:
		s.led.SetMode(LedOff)
	case StatePoweringOn, StatePoweringOff:
		s.led.SetMode(LedFastBlink)
	case StateOn:
		if s.standby {
			s.led.SetMode(LedPulse)
		} else {
			s.led.SetMode(LedSolidOn)
		}
	case StateFault:
		s.led.SetMode(LedSlowBlink)
	}
}

func (s *Sequencer) sampleRails() {
	readings := s.board.ReadRails()
	for i, r := range s.policy.Rails {
		mv := uint16(0)
		if i < len(readings) {
			mv = readings[i]
		}
		s.rails[i].Millivolts = mv
		s.rails[i].Valid = mv >= r.MinMillivolts && mv <= r.MaxMillivolts
	}
}

func (s *Sequencer) allRailsValid() bool {
	for _, r := range s.rails {
		if !r.Valid {
			return false
		}
	}
	return true
}
