package main

import (
	"os"

	"github.com/Dory74/STEMX373-SafeToManu/cmd/jumpctl/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
