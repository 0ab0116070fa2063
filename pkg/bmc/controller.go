// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// Snapshot is a consistent view of the controller's externally visible
// state, taken under the controller lock for panels and bridges.
type Snapshot struct {
	Tick       uint64
	State      PowerState
	Standby    bool
	LedMode    LedMode
	LedOn      bool
	Rails      []wire.RailReading
	Stats      *wire.BusStats
	EventCount int
}

// Controller owns the dispatch loop and the monotonic tick. All state
// machines are advanced from here, one goroutine, so single-writer
// ownership holds: the sequencer writes PowerState, the LED engine writes
// the output phase, and everything else reads.
//
// The bus adapter is the only component shared with another goroutine; a
// received frame is signalled through a bounded queue, never handled on
// the bus side itself.
type Controller struct {
	policy  Policy
	board   Board
	led     *LedEngine
	seq     *Sequencer
	monitor *ResetMonitor
	log     *EventLog
	stats   *Stats
	disp    *Dispatcher
	adapter *BusAdapter

	frameReady chan struct{}
	mu         sync.Mutex
	tick       uint64
	ledOn      bool
}

// NewController builds the full firmware core over a board, with all
// outputs initialized safe (power off, host in reset, LED off, ready
// deasserted).
func NewController(policy Policy, board Board) (*Controller, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		policy:     policy,
		board:      board,
		frameReady: make(chan struct{}, 1),
	}
	c.led = NewLedEngine(&c.policy)
	c.log = NewEventLog(policy.EventLogSize)
	c.stats = &Stats{}
	c.seq = NewSequencer(&c.policy, board, c.led, c.log)
	c.monitor = NewResetMonitor(&c.policy, board, c.seq, c.log)
	c.disp = NewDispatcher(c.seq, c.monitor, c.log, c.stats)
	c.adapter = NewBusAdapter(board, c.stats, c.notifyFrame)

	board.SetLED(false)
	return c, nil
}

// Adapter returns the bus transport adapter, for the bus master side.
func (c *Controller) Adapter() *BusAdapter {
	return c.adapter
}

// notifyFrame is called by the adapter when an inbound frame lands. The
// queue is one deep by construction: the adapter's single rx slot cannot
// hold a second frame until the first is polled.
func (c *Controller) notifyFrame() {
	select {
	case c.frameReady <- struct{}{}:
	default:
	}
}

// Tick advances every tick-driven state machine by one tick: debounce,
// power sequencing, the reset pulse countdown and the LED pattern.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.seq.Tick(c.tick)
	c.monitor.Tick(c.tick)
	c.ledOn = c.led.Tick()
	c.board.SetLED(c.ledOn)
}

// HandleFrame drains the adapter's receive slot, decodes, dispatches and
// stages the response. A corrupt frame is counted and discarded; no
// response is staged, and the host retries.
func (c *Controller) HandleFrame() {
	raw := c.adapter.PollReceived()
	if raw == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := wire.Decode(raw)
	if err != nil {
		if errors.Is(err, wire.ErrCorruptFrame) {
			c.stats.CRCErrors.Add(1)
		}
		return
	}
	c.stats.FramesOK.Add(1)

	rsp := c.disp.Dispatch(req, c.tick)
	encoded, err := wire.EncodeFrame(rsp)
	if err != nil {
		// Responses are built within bounds; nothing to send if not.
		return
	}
	// ErrBusy means the master never clocked out the previous response.
	// The new one is dropped; the master's retry hits the resend cache.
	if err := c.adapter.SubmitResponse(encoded); err != nil {
		c.stats.Underruns.Add(1)
	}
}

// Run drives the controller off a wall-clock ticker until the context is
// cancelled. Tests bypass Run and call Tick/HandleFrame directly.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.policy.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		case <-c.frameReady:
			c.HandleFrame()
		}
	}
}

// Status returns a consistent snapshot for panels and bridges. Safe to
// call from any goroutine.
func (c *Controller) Status() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Tick:       c.tick,
		State:      c.seq.State(),
		Standby:    c.seq.Standby(),
		LedMode:    c.led.Mode(),
		LedOn:      c.ledOn,
		Rails:      c.seq.Rails(),
		Stats:      c.stats.Snapshot(),
		EventCount: c.log.Len(),
	}
}
