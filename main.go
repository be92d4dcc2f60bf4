package main

import (
	"os"

	"github.com/yardworks/shunter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
