// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"bytes"
	"testing"

	"github.com/aukletsystems/auklet/pkg/wire"
)

func newTestAdapter() (*BusAdapter, *fakeBoard, *Stats, *int) {
	board := newFakeBoard(testPolicy())
	stats := &Stats{}
	notified := 0
	a := NewBusAdapter(board, stats, func() { notified++ })
	return a, board, stats, &notified
}

// masterWrite clocks a frame into the adapter, one transaction.
func masterWrite(a *BusAdapter, frame []byte) {
	a.BeginTransaction()
	for _, b := range frame {
		a.TransferByte(b)
	}
	a.EndTransaction()
}

// masterRead clocks n bytes out of the adapter, one transaction.
func masterRead(a *BusAdapter, n int) []byte {
	out := make([]byte, n)
	a.BeginTransaction()
	for i := range out {
		out[i] = a.TransferByte(padByte)
	}
	a.EndTransaction()
	return out
}

func TestBusAdapter_WriteTransaction(t *testing.T) {
	a, _, stats, notified := newTestAdapter()

	frame, err := wire.Encode(wire.CmdPowerState, nil)
	if err != nil {
		t.Fatal(err)
	}
	masterWrite(a, frame)

	if *notified != 1 {
		t.Fatalf("notify called %d times, want 1", *notified)
	}
	got := a.PollReceived()
	if !bytes.Equal(got, frame) {
		t.Fatalf("received %x, want %x", got, frame)
	}
	if a.PollReceived() != nil {
		t.Fatal("slot not freed after poll")
	}
	if stats.FramingErrors.Load() != 0 {
		t.Fatal("clean write counted a framing error")
	}
}

func TestBusAdapter_ReadTransaction(t *testing.T) {
	a, board, stats, _ := newTestAdapter()

	rsp, err := wire.Encode(wire.CmdPowerState|wire.RspFlag, []byte{wire.PowerOn})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SubmitResponse(rsp); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if !board.ready {
		t.Fatal("ready line not asserted after staging")
	}
	if !a.Ready() {
		t.Fatal("Ready() false with a staged response")
	}

	got := masterRead(a, len(rsp))
	if !bytes.Equal(got, rsp) {
		t.Fatalf("read %x, want %x", got, rsp)
	}
	if board.ready {
		t.Fatal("ready line still asserted after the read")
	}
	if stats.Overruns.Load() != 0 || stats.Underruns.Load() != 0 {
		t.Fatal("exact-length read counted an error")
	}
}

func TestBusAdapter_ReadOverclocked(t *testing.T) {
	a, _, stats, _ := newTestAdapter()

	rsp, _ := wire.Encode(wire.CmdPowerState|wire.RspFlag, []byte{wire.PowerOn})
	if err := a.SubmitResponse(rsp); err != nil {
		t.Fatal(err)
	}

	got := masterRead(a, len(rsp)+3)
	if !bytes.Equal(got[:len(rsp)], rsp) {
		t.Fatalf("read %x, want prefix %x", got, rsp)
	}
	for _, b := range got[len(rsp):] {
		if b != padByte {
			t.Fatalf("excess byte %#x, want pad", b)
		}
	}
	if stats.Overruns.Load() != 1 {
		t.Fatalf("overruns = %d, want 1", stats.Overruns.Load())
	}
	if a.Ready() {
		t.Fatal("response still staged after an overclocked read")
	}
}

func TestBusAdapter_ReadUnderclocked(t *testing.T) {
	a, board, stats, _ := newTestAdapter()

	rsp, _ := wire.Encode(wire.CmdPowerState|wire.RspFlag, []byte{wire.PowerOn})
	if err := a.SubmitResponse(rsp); err != nil {
		t.Fatal(err)
	}

	masterRead(a, len(rsp)-2)
	if stats.Underruns.Load() != 1 {
		t.Fatalf("underruns = %d, want 1", stats.Underruns.Load())
	}
	// The partial response is discarded, not resumed.
	if a.Ready() || board.ready {
		t.Fatal("partial response still staged")
	}
}

func TestBusAdapter_SubmitWhileStagedIsBusy(t *testing.T) {
	a, _, _, _ := newTestAdapter()

	rsp, _ := wire.Encode(wire.CmdPowerState|wire.RspFlag, []byte{wire.PowerOn})
	if err := a.SubmitResponse(rsp); err != nil {
		t.Fatal(err)
	}
	if err := a.SubmitResponse(rsp); err != ErrBusy {
		t.Fatalf("second submit returned %v, want ErrBusy", err)
	}
}

func TestBusAdapter_ShortWriteDiscarded(t *testing.T) {
	a, _, stats, notified := newTestAdapter()

	frame, _ := wire.Encode(wire.CmdPowerIntent, []byte{wire.IntentOn})
	masterWrite(a, frame[:len(frame)-1])

	if a.PollReceived() != nil {
		t.Fatal("truncated frame exposed to the dispatch loop")
	}
	if stats.FramingErrors.Load() != 1 {
		t.Fatalf("framing errors = %d, want 1", stats.FramingErrors.Load())
	}
	if *notified != 0 {
		t.Fatal("notify called for a discarded frame")
	}
}

func TestBusAdapter_LengthFieldMismatchDiscarded(t *testing.T) {
	a, _, stats, _ := newTestAdapter()

	frame, _ := wire.Encode(wire.CmdPowerIntent, []byte{wire.IntentOn})
	frame[1] = 5 // length field no longer matches the byte count
	masterWrite(a, frame)

	if a.PollReceived() != nil {
		t.Fatal("mismatched frame exposed to the dispatch loop")
	}
	if stats.FramingErrors.Load() != 1 {
		t.Fatalf("framing errors = %d, want 1", stats.FramingErrors.Load())
	}
}

func TestBusAdapter_OversizedWriteDiscarded(t *testing.T) {
	a, _, stats, _ := newTestAdapter()

	masterWrite(a, make([]byte, wire.MaxFrameSize+8))

	if a.PollReceived() != nil {
		t.Fatal("oversized transaction exposed to the dispatch loop")
	}
	if stats.FramingErrors.Load() != 1 {
		t.Fatalf("framing errors = %d, want 1", stats.FramingErrors.Load())
	}
}

func TestBusAdapter_SecondFrameBeforePollDropped(t *testing.T) {
	a, _, stats, _ := newTestAdapter()

	first, _ := wire.Encode(wire.CmdPowerState, nil)
	second, _ := wire.Encode(wire.CmdRailStatus, nil)
	masterWrite(a, first)
	masterWrite(a, second)

	if stats.Overruns.Load() != 1 {
		t.Fatalf("overruns = %d, want 1", stats.Overruns.Load())
	}
	// The first frame survives; the collider is the one dropped.
	if got := a.PollReceived(); !bytes.Equal(got, first) {
		t.Fatalf("slot holds %x, want the first frame %x", got, first)
	}
}

func TestBusAdapter_EmptyTransactionIgnored(t *testing.T) {
	a, _, stats, notified := newTestAdapter()

	a.BeginTransaction()
	a.EndTransaction()

	if *notified != 0 || stats.FramingErrors.Load() != 0 {
		t.Fatal("empty transaction produced a frame or an error")
	}
}

func TestBusAdapter_IdleShiftsPad(t *testing.T) {
	a, _, _, _ := newTestAdapter()
	if b := a.TransferByte(0x00); b != padByte {
		t.Fatalf("byte outside a transaction = %#x, want pad", b)
	}
}
