// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Auklet Systems

package bmc

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rail describes one monitored voltage rail and the window inside which
// its sensed value counts as valid.
type Rail struct {
	Name          string `yaml:"name"`
	MinMillivolts uint16 `yaml:"min_mv"`
	MaxMillivolts uint16 `yaml:"max_mv"`
}

// Policy is the BMC's timing and behaviour configuration. All durations
// are tick counts; TickInterval gives the nominal tick period for
// deployments that run the controller off a wall clock.
type Policy struct {
	TickInterval time.Duration `yaml:"tick_interval"`

	// Button handling
	DebounceSamples     int  `yaml:"debounce_samples"`
	LongPressTicks      int  `yaml:"long_press_ticks"`
	ResetButtonPowersOn bool `yaml:"reset_button_powers_on"`

	// Reset pulse
	ResetPulseTicks int `yaml:"reset_pulse_ticks"`

	// Power sequencing
	PowerOnTimeoutTicks int `yaml:"power_on_timeout_ticks"`
	PowerOffSettleTicks int `yaml:"power_off_settle_ticks"`
	BackfeedFaultTicks  int `yaml:"backfeed_fault_ticks"`

	// LED patterns
	SlowBlinkPeriodTicks int `yaml:"slow_blink_period_ticks"`
	FastBlinkPeriodTicks int `yaml:"fast_blink_period_ticks"`
	PulsePeriodTicks     int `yaml:"pulse_period_ticks"`
	PulseOnTicks         int `yaml:"pulse_on_ticks"`

	// Event log
	EventLogSize int `yaml:"event_log_size"`

	Rails []Rail `yaml:"rails"`
}

// DefaultPolicy returns the stock policy: a 5 ms tick, 15 ms debounce,
// 250 ms reset pulse, 1 s rail-valid timeout, and the two standard rails.
func DefaultPolicy() Policy {
	return Policy{
		TickInterval:         5 * time.Millisecond,
		DebounceSamples:      3,
		LongPressTicks:       240, // 1.2 s hold powers off
		ResetButtonPowersOn:  false,
		ResetPulseTicks:      50, // 250 ms
		PowerOnTimeoutTicks:  200,
		PowerOffSettleTicks:  40,
		BackfeedFaultTicks:   100,
		SlowBlinkPeriodTicks: 200,
		FastBlinkPeriodTicks: 40,
		PulsePeriodTicks:     200,
		PulseOnTicks:         10,
		EventLogSize:         16,
		Rails: []Rail{
			{Name: "3V3", MinMillivolts: 3135, MaxMillivolts: 3465},
			{Name: "5V", MinMillivolts: 4750, MaxMillivolts: 5250},
		},
	}
}

// LoadPolicy reads a YAML policy file over the defaults, so a file only
// needs to name the fields it changes.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects configurations the state machines cannot run on.
func (p *Policy) Validate() error {
	if p.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if p.DebounceSamples < 1 {
		return fmt.Errorf("debounce_samples must be at least 1")
	}
	if p.ResetPulseTicks < 1 {
		return fmt.Errorf("reset_pulse_ticks must be at least 1")
	}
	if p.PowerOnTimeoutTicks < 1 || p.PowerOffSettleTicks < 1 || p.BackfeedFaultTicks < 1 {
		return fmt.Errorf("sequencing tick counts must be at least 1")
	}
	if p.SlowBlinkPeriodTicks < 2 || p.FastBlinkPeriodTicks < 2 {
		return fmt.Errorf("blink periods must be at least 2 ticks")
	}
	if p.PulsePeriodTicks < 2 || p.PulseOnTicks < 1 || p.PulseOnTicks >= p.PulsePeriodTicks {
		return fmt.Errorf("pulse duty must satisfy 1 <= on < period")
	}
	if p.EventLogSize < 1 {
		return fmt.Errorf("event_log_size must be at least 1")
	}
	if len(p.Rails) == 0 {
		return fmt.Errorf("at least one rail must be configured")
	}
	for _, r := range p.Rails {
		if r.Name == "" {
			return fmt.Errorf("rail names must be non-empty")
		}
		if r.MinMillivolts >= r.MaxMillivolts {
			return fmt.Errorf("rail %s: min_mv must be below max_mv", r.Name)
		}
	}
	return nil
}
