package main

import (
	"os"

	"github.com/dshills/ailint/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
