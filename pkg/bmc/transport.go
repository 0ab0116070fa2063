// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"errors"
	"sync"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// ErrBusy is returned by SubmitResponse while a staged response has not
// been fully shifted out or consumed yet.
var ErrBusy = errors.New("transport busy")

// padByte is shifted out when the master clocks past the staged response
// (or when nothing is staged at all).
const padByte = 0xFF

// BusAdapter is the bus-slave transport. The BMC cannot initiate a
// transfer; the master supplies every clock edge. The adapter therefore
// only stages buffers: one inbound frame slot, one outbound.
//
// A transaction either writes a request (nothing staged: inbound bytes are
// collected) or reads a response (a frame is staged: inbound bytes are the
// master's padding and are discarded). The data-ready line, mirrored
// through Board.SetReady, tells the master a response is staged.
//
// The master side (BeginTransaction/TransferByte/EndTransaction) and the
// controller side (SubmitResponse/PollReceived) may run on different
// goroutines; the adapter is the boundary between the bus interrupt path
// and the main dispatch loop.
type BusAdapter struct {
	mu    sync.Mutex
	board Board
	stats *Stats

	// notify is called, outside the lock, when a complete inbound frame
	// is ready for PollReceived.
	notify func()

	inTransaction bool
	reading       bool // this transaction reads the staged response

	rxBuf      [wire.MaxFrameSize]byte
	rxLen      int
	rxOverflow bool
	rxFrame    []byte // single-slot handoff to the dispatch loop

	txFrame []byte
	txPos   int
	txOver  bool // master clocked past the staged response
}

// NewBusAdapter creates an adapter with both slots empty and the ready
// line deasserted.
func NewBusAdapter(board Board, stats *Stats, notify func()) *BusAdapter {
	board.SetReady(false)
	return &BusAdapter{board: board, stats: stats, notify: notify}
}

// Ready reports whether a response is staged for the master to read.
func (a *BusAdapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.txFrame != nil
}

// SubmitResponse stages the next frame to be shifted out and asserts the
// ready line. Fails with ErrBusy while a previous response is still
// staged.
func (a *BusAdapter) SubmitResponse(frame []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.txFrame != nil {
		return ErrBusy
	}
	staged := make([]byte, len(frame))
	copy(staged, frame)
	a.txFrame = staged
	a.txPos = 0
	a.board.SetReady(true)
	return nil
}

// PollReceived returns a complete inbound frame once one has been shifted
// in, else nil. The slot is freed, allowing the next frame to land.
func (a *BusAdapter) PollReceived() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	frame := a.rxFrame
	a.rxFrame = nil
	return frame
}

// BeginTransaction marks the start of a bus transaction (select asserted).
func (a *BusAdapter) BeginTransaction() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inTransaction = true
	a.reading = a.txFrame != nil
	a.rxLen = 0
	a.rxOverflow = false
	a.txOver = false
}

// TransferByte shifts one full-duplex byte: in from the master, out to it.
func (a *BusAdapter) TransferByte(in byte) byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.inTransaction {
		return padByte
	}

	if a.reading {
		// The master is clocking our response; its bytes are padding.
		if a.txPos < len(a.txFrame) {
			b := a.txFrame[a.txPos]
			a.txPos++
			return b
		}
		a.txOver = true
		return padByte
	}

	if a.rxLen < len(a.rxBuf) {
		a.rxBuf[a.rxLen] = in
		a.rxLen++
	} else {
		a.rxOverflow = true
	}
	return padByte
}

// EndTransaction marks the end of a transaction (select released) and
// validates what was shifted. A complete inbound frame is handed to the
// dispatch loop; anything short, long or colliding is discarded and
// counted; a truncated frame is never exposed to the codec.
func (a *BusAdapter) EndTransaction() {
	a.mu.Lock()

	a.inTransaction = false
	notify := false

	if a.reading {
		switch {
		case a.txOver:
			// Clocked past the end of the staged frame.
			a.stats.Overruns.Add(1)
		case a.txPos < len(a.txFrame):
			// Released select before the whole response was out.
			a.stats.Underruns.Add(1)
		}
		// Consumed either way; the master retries the request on error.
		a.txFrame = nil
		a.txPos = 0
		a.board.SetReady(false)
	} else if a.rxLen > 0 || a.rxOverflow {
		if frame, ok := a.completeFrame(); ok {
			if a.rxFrame != nil {
				// Previous frame not consumed yet; single-slot handoff.
				a.stats.Overruns.Add(1)
			} else {
				a.rxFrame = frame
				notify = true
			}
		} else {
			a.stats.FramingErrors.Add(1)
		}
	}

	a.mu.Unlock()

	if notify && a.notify != nil {
		a.notify()
	}
}

// completeFrame validates the transaction byte count against the frame's
// own length field.
func (a *BusAdapter) completeFrame() ([]byte, bool) {
	if a.rxOverflow || a.rxLen < wire.FrameOverhead {
		return nil, false
	}
	expected := int(a.rxBuf[1]) + wire.FrameOverhead
	if a.rxLen != expected {
		return nil, false
	}
	frame := make([]byte, a.rxLen)
	copy(frame, a.rxBuf[:a.rxLen])
	return frame, true
}
