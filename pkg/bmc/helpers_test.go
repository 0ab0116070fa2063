// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"time"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// fakeBoard is a minimal Board with settable inputs and recorded outputs.
type fakeBoard struct {
	powerEnable bool
	reset       bool
	led         bool
	ready       bool

	powerBtn bool
	resetBtn bool
	rails    []uint16
}

func newFakeBoard(p Policy) *fakeBoard {
	return &fakeBoard{rails: make([]uint16, len(p.Rails))}
}

func (b *fakeBoard) SetPowerEnable(on bool) { b.powerEnable = on }
func (b *fakeBoard) SetReset(asserted bool) { b.reset = asserted }
func (b *fakeBoard) SetLED(on bool)         { b.led = on }
func (b *fakeBoard) SetReady(ready bool)    { b.ready = ready }
func (b *fakeBoard) PowerButton() bool      { return b.powerBtn }
func (b *fakeBoard) ResetButton() bool      { return b.resetBtn }

func (b *fakeBoard) ReadRails() []uint16 {
	out := make([]uint16, len(b.rails))
	copy(out, b.rails)
	return out
}

// railsGood sets every rail to the middle of its valid window.
func (b *fakeBoard) railsGood(p Policy) {
	for i, r := range p.Rails {
		b.rails[i] = (r.MinMillivolts + r.MaxMillivolts) / 2
	}
}

// railsDead sets every rail to zero.
func (b *fakeBoard) railsDead() {
	for i := range b.rails {
		b.rails[i] = 0
	}
}

// testPolicy shrinks the stock timing so state machine tests run in a
// handful of ticks.
func testPolicy() Policy {
	p := DefaultPolicy()
	p.TickInterval = time.Millisecond
	p.DebounceSamples = 2
	p.LongPressTicks = 5
	p.ResetPulseTicks = 4
	p.PowerOnTimeoutTicks = 6
	p.PowerOffSettleTicks = 3
	p.BackfeedFaultTicks = 4
	p.SlowBlinkPeriodTicks = 8
	p.FastBlinkPeriodTicks = 4
	p.PulsePeriodTicks = 8
	p.PulseOnTicks = 2
	p.EventLogSize = 8
	return p
}

// core bundles the firmware components most tests need.
type core struct {
	policy  Policy
	board   *fakeBoard
	led     *LedEngine
	log     *EventLog
	stats   *Stats
	seq     *Sequencer
	monitor *ResetMonitor
	disp    *Dispatcher
	tick    uint64
}

func newCore(p Policy) *core {
	c := &core{policy: p, board: newFakeBoard(p)}
	c.led = NewLedEngine(&c.policy)
	c.log = NewEventLog(p.EventLogSize)
	c.stats = &Stats{}
	c.seq = NewSequencer(&c.policy, c.board, c.led, c.log)
	c.monitor = NewResetMonitor(&c.policy, c.board, c.seq, c.log)
	c.disp = NewDispatcher(c.seq, c.monitor, c.log, c.stats)
	return c
}

// step advances every tick-driven machine n ticks.
func (c *core) step(n int) {
	for i := 0; i < n; i++ {
		c.tick++
		c.seq.Tick(c.tick)
		c.monitor.Tick(c.tick)
		c.board.SetLED(c.led.Tick())
	}
}

// powerOn drives the core from off to on with good rails.
func (c *core) powerOn() {
	c.board.railsGood(c.policy)
	if err := c.seq.RequestPowerOn(c.tick, false); err != nil {
		panic(err)
	}
	c.step(2)
	if c.seq.State() != StateOn {
		panic("power-on helper did not reach the on state")
	}
}

// drainEvents empties the event log so a test can assert on fresh entries.
func (c *core) drainEvents() []wire.Event {
	return c.log.Drain(c.log.Len())
}
