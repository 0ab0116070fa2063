// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show BMC bus statistics",
	Long: `Read the BMC's transport and protocol counters.

Useful for diagnosing a flaky bus: CRC errors point at data integrity,
framing errors at byte-count mismatches, over/underruns at a master
clocking the wrong number of bytes.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, wire.NewBusStatsRequest())
		if err != nil {
			return err
		}
		stats, err := wire.DecodeBusStats(rsp.Payload())
		if err != nil {
			return err
		}

		fmt.Printf("Frames OK:      %d\n", stats.FramesOK)
		fmt.Printf("CRC errors:     %d\n", stats.CRCErrors)
		fmt.Printf("Framing errors: %d\n", stats.FramingErrors)
		fmt.Printf("Overruns:       %d\n", stats.Overruns)
		fmt.Printf("Underruns:      %d\n", stats.Underruns)
		fmt.Printf("Rejects:        %d\n", stats.Rejects)
		return nil
	})
}
