package main

import (
	"fmt"
	"os"

	"github.com/roasbeef/plexdash/cmd/plexdash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
