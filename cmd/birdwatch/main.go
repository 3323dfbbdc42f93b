package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/okonar/birdwatch/internal/cli"
)

func main() {
	// Optional; credentials usually come from the environment directly.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
