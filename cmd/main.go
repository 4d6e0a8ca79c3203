package main

import (
	"github.com/consensys/go-partial/pkg/cmd"
)

func main() {
	cmd.Execute()
}
