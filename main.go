// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Auklet Systems
//
// Auklet - board management controller firmware core and host tool.

package main

import (
	"fmt"
	"os"

	"github.com/aukletsystems/auklet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
