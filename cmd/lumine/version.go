package lumine

import "fmt"

// Version is set at build time via -ldflags
var Version = "dev"

func handleVersionCommand() error {
	fmt.Printf("lumine version %s\n", Version)
	return nil
}
