// Package main is the entry point of the repometrics CLI.
package main

import (
	"os"

	"github.com/huangsam/repometrics/cmd"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/iocache"
)

func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("failed to stop profiling", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogError("repometrics failed", err)
		os.Exit(1)
	}
}
