package main

import (
	"os"

	"github.com/nselim/graphdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
