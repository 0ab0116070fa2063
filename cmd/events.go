// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"
	"time"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Drain the BMC event log",
	Long: `Read button and sequencing events from the BMC.

The read drains: each event is delivered at most once, newest first. The
BMC keeps a bounded log and drops the oldest entries when it overflows, so
poll often enough on a busy front panel.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

var eventsCount uint8

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().Uint8Var(&eventsCount, "count", 16, "Maximum number of events to read")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if eventsCount == 0 {
		return fmt.Errorf("--count must be at least 1")
	}

	// The sequence byte marks this as a fresh poll; retries inside Do
	// reuse the same frame, which is what lets the BMC resend a response
	// that was lost on the wire.
	seq := uint8(time.Now().UnixNano())

	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, wire.NewEventLogRequest(eventsCount, seq))
		if err != nil {
			return err
		}
		events, err := wire.DecodeEventLog(rsp.Payload())
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No pending events")
			return nil
		}
		for _, e := range events {
			outcome := ""
			if e.Outcome == wire.OutcomeNotApplicable {
				outcome = "  (not applicable)"
			}
			fmt.Printf("tick %8d  %s%s\n", e.Tick, wire.FormatEventKind(e.Kind), outcome)
		}
		return nil
	})
}
