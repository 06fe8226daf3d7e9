package main

import (
	"os"

	"github.com/thenoetrevino/plazo/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
