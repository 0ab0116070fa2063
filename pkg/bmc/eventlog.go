// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import "github.com/aukletsystems/auklet/pkg/wire"

// EventLog is the bounded log of button and sequencing events the host can
// query. When full, the oldest entry is dropped. Reads drain: an entry is
// delivered to the host at most once (the dispatcher's duplicate-request
// cache covers retries of a lost response).
type EventLog struct {
	entries []wire.Event
	size    int
}

// NewEventLog creates a log holding at most size entries.
func NewEventLog(size int) *EventLog {
	if size < 1 {
		size = 1
	}
	return &EventLog{size: size}
}

// Append records an event, evicting the oldest if the log is full.
func (l *EventLog) Append(tick uint64, kind, outcome uint8) {
	if len(l.entries) >= l.size {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, wire.Event{Tick: tick, Kind: kind, Outcome: outcome})
}

// Len returns the number of pending entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Peek returns up to max entries, newest first, without removing them.
func (l *EventLog) Peek(max int) []wire.Event {
	if max <= 0 || len(l.entries) == 0 {
		return nil
	}
	n := len(l.entries)
	if max > n {
		max = n
	}

	out := make([]wire.Event, max)
	for i := 0; i < max; i++ {
		out[i] = l.entries[n-1-i]
	}
	return out
}

// Discard removes the newest n entries. The dispatcher commits a drain
// only after the entries have been encoded into a response, so an entry
// that did not fit is never lost.
func (l *EventLog) Discard(n int) {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	l.entries = l.entries[:len(l.entries)-n]
}

// Drain removes and returns up to max entries, newest first.
func (l *EventLog) Drain(max int) []wire.Event {
	out := l.Peek(max)
	l.Discard(len(out))
	return out
}
