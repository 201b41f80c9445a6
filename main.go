package main

import (
	"os"

	"github.com/conneroisu/istring/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
