// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems

package cmd

import (
	"fmt"

	"github.com/aukletsystems/auklet/pkg/wire"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the BMC's protocol and firmware versions",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	return Query(func(c *Client) error {
		rsp, err := checkedDo(c, wire.NewProtocolVersionRequest())
		if err != nil {
			return err
		}
		major, minor, patch, err := wire.ParseVersionResponse(rsp)
		if err != nil {
			return err
		}
		fmt.Printf("Protocol: %d.%d.%d\n", major, minor, patch)

		rsp, err = checkedDo(c, wire.NewFirmwareVersionRequest())
		if err != nil {
			return err
		}
		fw, err := wire.ParseFirmwareVersionResponse(rsp)
		if err != nil {
			return err
		}
		fmt.Printf("Firmware: %s\n", fw)
		return nil
	})
}
