package lumine

import (
	"fmt"
	"os"
)

// Execute is the main entry point for the CLI
func Execute() error {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		if len(os.Args) < 2 {
			return fmt.Errorf("no command provided")
		}
		return nil
	}

	command := os.Args[1]
	switch command {
	case "serve":
		return handleServeCommand(os.Args[2:])
	case "session":
		return handleSessionCommand(os.Args[2:])
	case "version":
		return handleVersionCommand()
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("usage: lumine [-h] {serve,session,version} ...")
	fmt.Println("")
	fmt.Println("positional arguments:")
	fmt.Println("  {serve,session,version}")
	fmt.Println("                        Lumine widget commands")
	fmt.Println("    serve               Run the widget server")
	fmt.Println("    session             Show or reset the local session identity")
	fmt.Println("    version             Print the version")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -h, --help            show this help message and exit")
}
