package main

import (
	"github.com/provis-run/provis/cmd"
)

func main() {
	cmd.MustRun()
}
