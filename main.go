package main

import (
	"os"

	"github.com/RamKarthikeya/ApiTestingG/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
