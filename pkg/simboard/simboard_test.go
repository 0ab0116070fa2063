// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package simboard

import (
	"testing"
	"time"

	"github.com/aukletsystems/auklet/pkg/bmc"
)

func testPolicy() bmc.Policy {
	p := bmc.DefaultPolicy()
	p.TickInterval = time.Millisecond
	p.DebounceSamples = 2
	p.PowerOnTimeoutTicks = 20
	p.PowerOffSettleTicks = 3
	p.BackfeedFaultTicks = 4
	return p
}

func TestBoard_RailsFollowPowerEnable(t *testing.T) {
	p := testPolicy()
	b := New(p, 4)

	for i, mv := range b.ReadRails() {
		if mv != 0 {
			t.Fatalf("rail %d reads %d mV with power disabled", i, mv)
		}
	}

	b.SetPowerEnable(true)
	var last []uint16
	for step := 0; step < 4; step++ {
		last = b.ReadRails()
	}
	for i, r := range p.Rails {
		want := (r.MinMillivolts + r.MaxMillivolts) / 2
		if last[i] != want {
			t.Fatalf("rail %s at %d mV after the ramp, want %d", r.Name, last[i], want)
		}
	}

	b.SetPowerEnable(false)
	for i, mv := range b.ReadRails() {
		if mv != 0 {
			t.Fatalf("rail %d still reads %d mV after power disable", i, mv)
		}
	}
}

func TestBoard_RampIsGradual(t *testing.T) {
	b := New(testPolicy(), 10)
	b.SetPowerEnable(true)

	first := b.ReadRails()
	for i, r := range testPolicy().Rails {
		if first[i] == 0 || first[i] >= r.MinMillivolts {
			t.Fatalf("rail %s at %d mV on the first step, want a partial reading", r.Name, first[i])
		}
	}
}

func TestBoard_FailRail(t *testing.T) {
	p := testPolicy()
	b := New(p, 1)
	b.SetPowerEnable(true)
	b.ReadRails()

	b.FailRail(p.Rails[0].Name, true)
	rails := b.ReadRails()
	if rails[0] != 0 {
		t.Fatalf("failed rail reads %d mV", rails[0])
	}
	if rails[1] == 0 {
		t.Fatal("healthy rail collapsed with the failed one")
	}

	b.FailRail(p.Rails[0].Name, false)
	if rails := b.ReadRails(); rails[0] == 0 {
		t.Fatal("restored rail still reads zero")
	}
}

func TestBoard_PinsAndButtons(t *testing.T) {
	b := New(testPolicy(), 1)

	b.SetReset(true)
	b.SetLED(true)
	b.SetReady(true)
	pins := b.Pins()
	if !pins.Reset || !pins.LED || !pins.Ready || pins.PowerEnable {
		t.Fatalf("pin snapshot %+v", pins)
	}

	b.SetPowerButton(true)
	b.SetResetButton(true)
	if !b.PowerButton() || !b.ResetButton() {
		t.Fatal("button injection not visible")
	}
}

// The full stack: a controller over a simboard powers on end to end.
func TestBoard_DrivesControlCore(t *testing.T) {
	p := testPolicy()
	b := New(p, 3)

	ctl, err := bmc.NewController(p, b)
	if err != nil {
		t.Fatal(err)
	}

	// Press the power button and let the core sequence up.
	b.SetPowerButton(true)
	for i := 0; i < p.DebounceSamples+1; i++ {
		ctl.Tick()
	}
	b.SetPowerButton(false)
	for i := 0; i < 10; i++ {
		ctl.Tick()
	}

	st := ctl.Status()
	if st.State != bmc.StateOn {
		t.Fatalf("state %v after power button and ramp, want on", st.State)
	}
	pins := b.Pins()
	if !pins.PowerEnable || pins.Reset {
		t.Fatalf("pins %+v, want power enabled and reset released", pins)
	}

	// Kill a rail: protective shutdown back to off.
	b.FailRail(p.Rails[0].Name, true)
	for i := 0; i < p.PowerOffSettleTicks+2; i++ {
		ctl.Tick()
	}
	if st := ctl.Status(); st.State != bmc.StateOff {
		t.Fatalf("state %v after rail failure, want off", st.State)
	}
}
