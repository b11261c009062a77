package main

import (
	"os"

	"github.com/nscope/nscb/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
