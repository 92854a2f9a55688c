package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/catadaptive/pharmcat/cmd"
)

func main() {
	// Optional .env for PHARMCAT_DB and similar settings.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
