package main

import (
	"fmt"
	"os"

	"subgen/cmd/subgen/cmd"
	"subgen/internal/config"
)

func main() {
	// Missing .env is fine; keys may come from the real environment.
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
