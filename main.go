package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shassankhatoonabadi/abandoned-prs/cmd"
)

func main() {
	// A .env file in the working directory may carry GITHUB_TOKEN.
	_ = godotenv.Load()

	if err := cmd.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
