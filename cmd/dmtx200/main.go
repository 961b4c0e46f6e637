package main

import (
	"github.com/go-dmtx/dmtx200/cmd/dmtx200/cmd"
)

func main() {
	cmd.Execute()
}
