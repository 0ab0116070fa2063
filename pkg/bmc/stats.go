// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"sync/atomic"

	"github.com/aukletsystems/auklet/pkg/wire"
)

// Stats tracks transport and protocol counters. The bus side and the
// dispatch loop run on different goroutines, so the counters are atomic.
type Stats struct {
	FramesOK      atomic.Uint32 // frames decoded and dispatched
	CRCErrors     atomic.Uint32 // integrity check failures
	FramingErrors atomic.Uint32 // byte-count mismatches on the bus
	Overruns      atomic.Uint32 // frames dropped because a slot was full
	Underruns     atomic.Uint32 // responses abandoned mid-shift
	Rejects       atomic.Uint32 // well-formed requests answered with an error
}

// Snapshot captures the counters in wire form for a get-bus-stats
// response.
func (s *Stats) Snapshot() *wire.BusStats {
	return &wire.BusStats{
		FramesOK:      s.FramesOK.Load(),
		CRCErrors:     s.CRCErrors.Load(),
		FramingErrors: s.FramingErrors.Load(),
		Overruns:      s.Overruns.Load(),
		Underruns:     s.Underruns.Load(),
		Rejects:       s.Rejects.Load(),
	}
}
