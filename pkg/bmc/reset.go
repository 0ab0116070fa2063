// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import "github.com/aukletsystems/auklet/pkg/wire"

// ResetMonitor debounces the front-panel buttons and drives the host reset
// pulse. The pulse is atomic: once started it runs its full duration, and
// further presses or host requests during the pulse are ignored.
//
// The power button comes from the same front panel: a short press powers
// the host on while off, and holding it past the long-press window powers
// it off. A reset press while off either powers on or is logged as
// not-applicable, per Policy.ResetButtonPowersOn.
type ResetMonitor struct {
	policy *Policy
	board  Board
	seq    *Sequencer
	log    *EventLog

	resetDeb *Debouncer
	powerDeb *Debouncer

	pulseRemaining int
	powerHeld      int
	longFired      bool
}

// NewResetMonitor creates a monitor with both buttons released.
func NewResetMonitor(policy *Policy, board Board, seq *Sequencer, log *EventLog) *ResetMonitor {
	return &ResetMonitor{
		policy:   policy,
		board:    board,
		seq:      seq,
		log:      log,
		resetDeb: NewDebouncer(policy.DebounceSamples),
		powerDeb: NewDebouncer(policy.DebounceSamples),
	}
}

// PulseActive reports whether a reset pulse is currently running.
func (m *ResetMonitor) PulseActive() bool {
	return m.pulseRemaining > 0
}

// RequestPulse starts a host-commanded reset pulse. Returns
// ErrNotApplicable unless the power state is StateOn; a request during an
// active pulse is absorbed by it.
func (m *ResetMonitor) RequestPulse(tick uint64) error {
	if !m.seq.ResetAllowed() {
		return ErrNotApplicable
	}
	m.startPulse(tick)
	return nil
}

// Tick samples both buttons, advances debounce, handles accepted edges and
// counts down an active pulse. Called exactly once per controller tick.
func (m *ResetMonitor) Tick(tick uint64) {
	m.handleResetButton(tick)
	m.handlePowerButton(tick)

	if m.pulseRemaining > 0 {
		m.pulseRemaining--
		if m.pulseRemaining == 0 && m.seq.State() == StateOn {
			// Release the host, but only if it is still powered; the
			// sequencer owns the line otherwise.
			m.board.SetReset(false)
		}
	}
}

func (m *ResetMonitor) handleResetButton(tick uint64) {
	switch m.resetDeb.Update(m.board.ResetButton()) {
	case EdgeRise:
		switch {
		case m.seq.ResetAllowed():
			m.log.Append(tick, wire.EventResetPress, wire.OutcomeAccepted)
			m.startPulse(tick)
		case m.seq.State() == StateOff && m.policy.ResetButtonPowersOn:
			m.log.Append(tick, wire.EventResetPress, wire.OutcomeAccepted)
			_ = m.seq.RequestPowerOn(tick, false)
		default:
			m.log.Append(tick, wire.EventResetPress, wire.OutcomeNotApplicable)
		}
	case EdgeFall:
		m.log.Append(tick, wire.EventResetRelease, wire.OutcomeAccepted)
	}
}

func (m *ResetMonitor) handlePowerButton(tick uint64) {
	switch m.powerDeb.Update(m.board.PowerButton()) {
	case EdgeRise:
		m.powerHeld = 0
		m.longFired = false
		if m.seq.State() == StateOff {
			m.log.Append(tick, wire.EventPowerPress, wire.OutcomeAccepted)
			_ = m.seq.RequestPowerOn(tick, false)
		} else {
			m.log.Append(tick, wire.EventPowerPress, wire.OutcomeAccepted)
		}
	case EdgeFall:
		m.log.Append(tick, wire.EventPowerRelease, wire.OutcomeAccepted)
		m.powerHeld = 0
	case EdgeNone:
		if m.powerDeb.State() {
			m.powerHeld++
			if !m.longFired && m.powerHeld >= m.policy.LongPressTicks && m.seq.State() == StateOn {
				m.longFired = true
				_ = m.seq.RequestPowerOff(tick)
			}
		}
	}
}

func (m *ResetMonitor) startPulse(tick uint64) {
	if m.pulseRemaining > 0 {
		// A pulse is already running; it neither extends nor restarts.
		return
	}
	m.log.Append(tick, wire.EventResetPulse, wire.OutcomeAccepted)
	m.board.SetReset(true)
	m.pulseRemaining = m.policy.ResetPulseTicks
}
