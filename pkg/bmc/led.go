// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import "github.com/aukletsystems/auklet/pkg/wire"

// LedMode is the status LED's blink mode. Values match the wire encoding.
type LedMode uint8

const (
	LedOff       LedMode = wire.LedOff
	LedSolidOn   LedMode = wire.LedSolidOn
	LedSlowBlink LedMode = wire.LedSlowBlink
	LedFastBlink LedMode = wire.LedFastBlink
	LedPulse     LedMode = wire.LedPulse
)

// String implements fmt.Stringer.
func (m LedMode) String() string {
	return wire.FormatLedMode(uint8(m))
}

// ValidLedMode reports whether a wire byte names a known LED mode.
func ValidLedMode(b uint8) bool {
	return b <= wire.LedPulse
}

// LedEngine turns a LedMode into a tick-by-tick output level. Symmetric
// blink modes are high for the first half of each period; Pulse is high
// for a short burst at the start of each period. Changing mode resets the
// phase counter so patterns always start cleanly.
type LedEngine struct {
	policy *Policy
	mode   LedMode
	phase  int
}

// NewLedEngine creates an engine in LedOff.
func NewLedEngine(policy *Policy) *LedEngine {
	return &LedEngine{policy: policy}
}

// Mode returns the current mode.
func (e *LedEngine) Mode() LedMode {
	return e.mode
}

// SetMode changes the blink mode. A no-op if the mode is unchanged, so an
// in-progress pattern is not glitched by redundant updates.
func (e *LedEngine) SetMode(mode LedMode) {
	if mode == e.mode {
		return
	}
	e.mode = mode
	e.phase = 0
}

// Tick returns the output level for the current tick and advances the
// phase counter.
func (e *LedEngine) Tick() bool {
	out := e.output()

	period := e.period()
	if period > 0 {
		e.phase = (e.phase + 1) % period
	}
	return out
}

func (e *LedEngine) period() int {
	switch e.mode {
	case LedSlowBlink:
		return e.policy.SlowBlinkPeriodTicks
	case LedFastBlink:
		return e.policy.FastBlinkPeriodTicks
	case LedPulse:
		return e.policy.PulsePeriodTicks
	default:
		return 0
	}
}

func (e *LedEngine) output() bool {
	switch e.mode {
	case LedOff:
		return false
	case LedSolidOn:
		return true
	case LedSlowBlink, LedFastBlink:
		return e.phase < e.period()/2
	case LedPulse:
		return e.phase < e.policy.PulseOnTicks
	default:
		return false
	}
}
