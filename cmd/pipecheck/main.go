package main

import (
	"os"

	"github.com/petra-ci/pipecheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
