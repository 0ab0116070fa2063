// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

// Package simboard provides a simulated board for running the control
// core without hardware. Rails ramp up over a configurable number of
// ticks after power enable, buttons are injected programmatically, and
// every output pin is observable.
package simboard

import (
	"sync"

	"github.com/aukletsystems/auklet/pkg/bmc"
)

// PinState is a snapshot of the board's output pins.
type PinState struct {
	PowerEnable bool
	Reset       bool
	LED         bool
	Ready       bool
}

// Board implements bmc.Board over a software rail model. Safe for
// concurrent use: the control core ticks it from one goroutine while a
// panel or test drives the inputs from another.
//
// The rail model advances one step per ReadRails call; the control core
// samples the rails exactly once per tick, so ramp durations are in
// ticks. Each rail ramps linearly from zero to the middle of its valid
// window while power is enabled, and collapses to zero when it is not.
type Board struct {
	mu sync.Mutex

	policy    bmc.Policy
	rampTicks int
	nominal   []uint16

	pins     PinState
	powerBtn bool
	resetBtn bool
	ramp     int
	failed   map[string]bool
}

// New creates a board for the given policy, ramping rails over rampTicks
// ticks of power enable.
func New(policy bmc.Policy, rampTicks int) *Board {
	if rampTicks < 1 {
		rampTicks = 1
	}
	nominal := make([]uint16, len(policy.Rails))
	for i, r := range policy.Rails {
		nominal[i] = (r.MinMillivolts + r.MaxMillivolts) / 2
	}
	return &Board{
		policy:    policy,
		rampTicks: rampTicks,
		nominal:   nominal,
		failed:    make(map[string]bool),
	}
}

func (b *Board) SetPowerEnable(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !on {
		b.ramp = 0
	}
	b.pins.PowerEnable = on
}

func (b *Board) SetReset(asserted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins.Reset = asserted
}

func (b *Board) SetLED(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins.LED = on
}

func (b *Board) SetReady(ready bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins.Ready = ready
}

func (b *Board) PowerButton() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.powerBtn
}

func (b *Board) ResetButton() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resetBtn
}

// ReadRails returns the simulated rail voltages and advances the ramp by
// one step.
func (b *Board) ReadRails() []uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]uint16, len(b.nominal))
	if b.pins.PowerEnable {
		if b.ramp < b.rampTicks {
			b.ramp++
		}
		for i, mv := range b.nominal {
			if b.failed[b.policy.Rails[i].Name] {
				continue
			}
			out[i] = uint16(uint32(mv) * uint32(b.ramp) / uint32(b.rampTicks))
		}
	}
	return out
}

// Pins returns a snapshot of the output pins.
func (b *Board) Pins() PinState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pins
}

// SetPowerButton drives the raw power button level.
func (b *Board) SetPowerButton(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.powerBtn = pressed
}

// SetResetButton drives the raw reset button level.
func (b *Board) SetResetButton(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetBtn = pressed
}

// FailRail forces the named rail to read zero regardless of power
// enable, for fault-path scripting. Passing false restores it.
func (b *Board) FailRail(name string, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed[name] = failed
}
