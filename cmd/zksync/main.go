// Package main is the entry point for the zksync CLI client.
package main

import (
	"github.com/printeers/zakeke-sync/cmd/zksync/cmd"
)

func main() {
	cmd.Execute()
}
