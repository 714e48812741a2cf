package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"fable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
