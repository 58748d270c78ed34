package lumine

import (
	"fmt"

	"github.com/lumine-ai/widget/pkg/session"
)

func handleSessionCommand(args []string) error {
	provider := session.NewFileProvider("")

	if len(args) > 0 && args[0] == "reset" {
		if err := provider.Reset(); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		fmt.Println("Session reset.")
		return nil
	}

	token := provider.SessionID()
	if token == "" {
		return fmt.Errorf("failed to create session identity")
	}
	fmt.Println(token)
	return nil
}
