// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"
	"log"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display decoded frames as they arrive",
	Long: `Continuously decode and display protocol frames from the connection.

Each frame is shown with its timestamp, identifier and decoded payload.
Corrupt frames are reported and the decoder resynchronises on the next
start byte.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Auklet - Frame Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := wire.NewDecoder()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A WebSocket read error means the connection is gone for
			// good; exit cleanly rather than spinning.
			if err == ErrConnectionClosed {
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		for i := 0; i < n; i++ {
			frame, err := decoder.DecodeByte(buf[i])
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if frame != nil {
				fmt.Print(wire.FormatFrame(frame))
			}
		}
	}
}
