package main

import (
	"fmt"
	"os"

	cmd "github.com/rampart/rampart/cmd/rampart"
)

func main() {
	if err := cmd.Rampart.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
