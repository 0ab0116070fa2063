// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var ledCmd = &cobra.Command{
	Use:   "led [get|off|on|slow|fast|pulse]",
	Short: "Query or override the status LED mode",
	Long: `Query the status LED blink mode or override it.

An override is only honored while the host is powered on, and lasts until
the next power state transition; the BMC then restores its own state
mapping. Querying always works.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"get", "off", "on", "slow", "fast", "pulse"},
	RunE:      runLed,
}

func init() {
	rootCmd.AddCommand(ledCmd)
}

var ledModeNames = map[string]uint8{
	"off":   wire.LedOff,
	"on":    wire.LedSolidOn,
	"slow":  wire.LedSlowBlink,
	"fast":  wire.LedFastBlink,
	"pulse": wire.LedPulse,
}

func runLed(cmd *cobra.Command, args []string) error {
	var req *wire.Frame
	if args[0] == "get" {
		req = wire.NewLedModeRequest()
	} else {
		mode, ok := ledModeNames[args[0]]
		if !ok {
			return fmt.Errorf("unknown LED mode: %s", args[0])
		}
		req = wire.NewSetLedMode(mode)
	}

	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, req)
		if err != nil {
			return err
		}
		mode, err := wire.ParseByteResponse(rsp, req.ID())
		if err != nil {
			return err
		}
		fmt.Printf("LED mode: %s\n", wire.FormatLedMode(mode))
		return nil
	})
}
