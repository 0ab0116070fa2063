// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:   "power [on|off|standby|state]",
	Short: "Query or change the host power state",
	Long: `Query the BMC power state or submit a power intent.

  power state    show the current power state
  power on       request full power-on
  power standby  request power-on in standby mode
  power off      request orderly power-off

Intents are acknowledged with the power state the BMC moved to, which may
be a transitional state (powering-on, powering-off). Poll 'power state' to
watch the sequence complete. A latched fault rejects power-on intents; see
'auklet power clear-fault'.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "standby", "state", "clear-fault"},
	RunE:      runPower,
}

func init() {
	rootCmd.AddCommand(powerCmd)
}

func runPower(cmd *cobra.Command, args []string) error {
	var req *wire.Frame
	switch args[0] {
	case "state":
		req = wire.NewPowerStateRequest()
	case "on":
		req = wire.NewPowerIntent(wire.IntentOn)
	case "standby":
		req = wire.NewPowerIntent(wire.IntentStandby)
	case "off":
		req = wire.NewPowerIntent(wire.IntentOff)
	case "clear-fault":
		req = wire.NewClearFault()
	default:
		return fmt.Errorf("unknown power subcommand: %s", args[0])
	}

	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, req)
		if err != nil {
			return err
		}
		state, err := wire.ParseByteResponse(rsp, req.ID())
		if err != nil {
			return err
		}
		fmt.Printf("Power state: %s\n", wire.FormatPowerState(state))
		return nil
	})
}
