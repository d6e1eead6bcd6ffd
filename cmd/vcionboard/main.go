// Package main is the entry point for the vcionboard CLI
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sirosfoundation/vcionboard/cmd/vcionboard/cmd"
)

func main() {
	// a missing .env is fine; the environment and flags still apply
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
