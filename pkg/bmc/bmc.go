// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

// Package bmc implements the control core of the Auklet board management
// controller: the power sequencer, reset monitor, LED pattern engine,
// command dispatcher and bus transport adapter.
//
// The package is pure Go over the Board hardware interface and a tick
// counter; it contains no wall-clock waits and no I/O of its own, so the
// same code drives real hardware, the simulator and the tests. All timed
// behaviour (debounce windows, reset pulses, sequencing timeouts) is
// expressed in tick counts against the controller's monotonic tick.
package bmc

// FirmwareVersion is reported in response to the firmware-version command,
// truncated to FirmwareVersionSize bytes on the wire.
const FirmwareVersion = "auklet-bmc 1.0.0"

// FirmwareVersionSize bounds the firmware-version response payload.
const FirmwareVersionSize = 32
