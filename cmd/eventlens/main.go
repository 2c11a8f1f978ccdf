// Package main is the entry point for the eventlens CLI.
package main

import (
	"github.com/eventlens/eventlens/internal/cli"
	"github.com/eventlens/eventlens/internal/env"
	"github.com/eventlens/eventlens/internal/output"
)

func main() {
	output.Init()

	// A local .env file may carry EVENTLENS_* overrides
	if err := env.LoadEnvFiles(); err != nil {
		output.Warnf("Ignoring .env file: %v", err)
	}

	cli.Execute()
}
