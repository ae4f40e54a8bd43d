package main

import (
	"os"

	"github.com/talentprep/scorekit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
