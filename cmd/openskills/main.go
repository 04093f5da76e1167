// Package main provides the openskills CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/Geeksfino/openskills/internal/native"
)

func main() {
	if handled, err := native.MaybeHandleSandboxInit(os.Args[1:]); handled {
		// RunSandboxInit never returns on success; reaching here means it
		// failed before exec-transitioning into the interpreter.
		fmt.Fprintf(os.Stderr, "sandbox-init: %v\n", err)
		os.Exit(1)
	}

	Execute()
}
