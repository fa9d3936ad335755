package main

import (
	"os"

	"github.com/GregMSThompson/hisaab-profiles/cmd/profilectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
