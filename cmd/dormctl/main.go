package main

import (
	"fmt"
	"os"

	"dormku_backend/cmd/dormctl/commands"
	"dormku_backend/internals/configs"
)

func main() {
	configs.LoadEnv()

	if err := commands.NewRootCmd(commands.OpenFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
