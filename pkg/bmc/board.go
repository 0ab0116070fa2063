// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

// Board is the hardware surface the control core drives. Implementations
// exist for real targets and for the simulated board in pkg/simboard; the
// core never touches pins directly.
//
// The reset output is active-low on the board; SetReset(true) means "hold
// the host in reset". Button inputs return the raw, unbounced level
// sampled at call time (true = pressed); debouncing happens in the core.
type Board interface {
	// SetPowerEnable drives the DC power-enable output.
	SetPowerEnable(on bool)
	// SetReset asserts or releases the host reset line.
	SetReset(asserted bool)
	// SetLED drives the status LED output.
	SetLED(on bool)
	// SetReady drives the bus data-ready output line.
	SetReady(ready bool)

	// PowerButton samples the power button input.
	PowerButton() bool
	// ResetButton samples the reset button input.
	ResetButton() bool

	// ReadRails samples the voltage-rail sense inputs, in millivolts,
	// one reading per configured rail, in Policy.Rails order.
	ReadRails() []uint16
}
