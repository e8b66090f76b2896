package main

import (
	"os"

	"github.com/hiresense/hiresense/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
