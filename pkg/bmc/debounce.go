// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

// Edge is a debounced input transition.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeRise      // input became active (button pressed)
	EdgeFall      // input became inactive (button released)
)

// Debouncer filters a noisy sampled input into clean edges. A candidate
// transition must persist for a fixed number of consecutive identical
// samples before it is accepted; shorter excursions are electrical bounce
// and are suppressed.
type Debouncer struct {
	samples int
	count   int
	state   bool
}

// NewDebouncer creates a debouncer accepting a transition after the given
// number of consecutive identical samples.
func NewDebouncer(samples int) *Debouncer {
	if samples < 1 {
		samples = 1
	}
	return &Debouncer{samples: samples}
}

// State returns the current debounced state.
func (d *Debouncer) State() bool {
	return d.state
}

// Update feeds one raw sample and reports an accepted edge, if any.
func (d *Debouncer) Update(active bool) Edge {
	if active == d.state {
		d.count = 0
		return EdgeNone
	}

	d.count++
	if d.count < d.samples {
		return EdgeNone
	}

	d.count = 0
	d.state = active
	if active {
		return EdgeRise
	}
	return EdgeFall
}
