// Package main is the entry point for the zakeke-sync server.
package main

import (
	"os"

	"github.com/printeers/zakeke-sync/cmd/zakeke-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
