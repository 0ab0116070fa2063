// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var railsCmd = &cobra.Command{
	Use:   "rails",
	Short: "Show voltage rail status",
	Long: `Read the monitored voltage rails from the BMC.

Each rail reports its latest sensed value in millivolts and whether that
value sits inside the rail's configured valid window.`,
	Args: cobra.NoArgs,
	RunE: runRails,
}

func init() {
	rootCmd.AddCommand(railsCmd)
}

func runRails(cmd *cobra.Command, args []string) error {
	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, wire.NewRailStatusRequest())
		if err != nil {
			return err
		}
		rails, err := wire.DecodeRailStatus(rsp.Payload())
		if err != nil {
			return err
		}

		for _, r := range rails {
			status := "OK"
			if !r.Valid {
				status = "OUT OF RANGE"
			}
			fmt.Printf("%-8s %5d mV  %s\n", r.Name, r.Millivolts, status)
		}
		return nil
	})
}
