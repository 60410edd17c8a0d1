package main

import (
	"os"

	"github.com/dl/findedit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
