package main

import (
	"os"

	"github.com/docugate-io/docugate/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
