package main

import (
	"fmt"
	"os"

	"github.com/andywolf/envsync/internal/cli"
	"github.com/andywolf/envsync/internal/redact"
)

func main() {
	// The guard must be in place before any other statement can print.
	redact.Install()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
