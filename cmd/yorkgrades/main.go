package main

import (
	"context"
	"fmt"
	"os"
	"yorkgrades/cmd/yorkgrades/commands"
)

func main() {
	err := commands.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
