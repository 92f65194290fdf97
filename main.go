// Package main is the entry point for the vigil application.
package main

import (
	"github.com/anisan-cli/vigil/cmd"
	"github.com/anisan-cli/vigil/config"
	"github.com/anisan-cli/vigil/element/mpv"
	"github.com/anisan-cli/vigil/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go mpv.CollectStaleSockets()

	cmd.Execute()
}
