// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Pulse the host reset line",
	Long: `Request a host reset pulse.

The BMC asserts the host reset line for its configured pulse duration and
releases it. Only valid while the host is powered on; the request is
rejected as not-applicable otherwise. A request landing during an active
pulse is absorbed by it.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	return Query(func(c *Client) error {
		if _, err := checkedDo(c, wire.NewResetRequest()); err != nil {
			return err
		}
		fmt.Println("Reset pulse started")
		return nil
	})
}
