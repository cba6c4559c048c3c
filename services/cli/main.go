// Package main is the entry point for the hmc CLI.
package main

import (
	"os"

	"github.com/YASHK-arch/heavy-metal-compass/services/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
