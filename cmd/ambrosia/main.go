package main

import (
	"os"

	"github.com/solatis/ambrosia/cmd/ambrosia/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
