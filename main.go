package main

import (
	"github.com/joho/godotenv"

	"github.com/calebmls/attune/cmd"
)

func main() {
	// Credentials may live in a .env file during development. Missing file
	// is fine; flags and the config file are the primary sources.
	_ = godotenv.Load()

	cmd.Execute()
}
