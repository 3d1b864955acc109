// main is the entry point for the trendboard CLI.
package main

import (
	"github.com/trendboard/trendboard/cmd"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
