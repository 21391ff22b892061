// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/taostack/stakecycle/cmd"
)

func main() {
	cmd.Execute()
}
