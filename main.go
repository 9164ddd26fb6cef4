package main

import (
	"os"

	"github.com/bsansouci/ocaml-crunch/cmd"
	"github.com/bsansouci/ocaml-crunch/internal"
)

var logger = internal.GetLogger("crunch_main")

func main() {
	err := cmd.Main(os.Args)
	if err != nil {
		logger.Fatal(err)
	}
}
