package main

import (
	"os"

	"github.com/samchan0221/mh-coding-task-2/cmd/cardctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
