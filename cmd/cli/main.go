package main

import (
	"os"

	"sqlgate/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
