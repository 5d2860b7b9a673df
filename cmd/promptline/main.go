package main

import (
	"os"

	"promptline/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
