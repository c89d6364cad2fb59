// Package main provides the go-cpusched CLI entry point.
//
// go-cpusched simulates CPU scheduling algorithms over a set of processes
// and renders the resulting execution traces.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/randomizedcoder/go-cpusched/internal/cli"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-cpusched
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
