package main

import (
	"fmt"
	"os"

	"sales_ledger/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("ledger: %v", err))
		os.Exit(1)
	}
}
