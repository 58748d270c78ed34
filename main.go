package main

import (
	"fmt"
	"os"

	"github.com/lumine-ai/widget/cmd/lumine"
)

func main() {
	if err := lumine.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
