// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/alertae/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
