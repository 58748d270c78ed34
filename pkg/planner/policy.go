package planner

import "strings"

// Thresholds for classifying a conversation as meaningful. A trip plan that
// becomes ready during a meaningful conversation was created now and is
// activated directly; otherwise it is a leftover from a previous session and
// parks as pending until the user confirms it.
const (
	// MeaningfulMessageCount is the user-message count at which a
	// conversation is always meaningful.
	MeaningfulMessageCount = 2

	// GreetingMaxLength is the longest a lone first message can be and still
	// count as a trivial greeting.
	GreetingMaxLength = 10
)

var trivialGreetings = map[string]bool{
	"hi":    true,
	"hello": true,
}

// IsMeaningfulConversation reports whether the user-authored messages amount
// to an active planning conversation: at least MeaningfulMessageCount
// messages, or exactly one that is neither a known greeting nor short enough
// to be one.
func IsMeaningfulConversation(userMessages []string) bool {
	if len(userMessages) >= MeaningfulMessageCount {
		return true
	}
	if len(userMessages) != 1 {
		return false
	}
	text := strings.ToLower(userMessages[0])
	return !trivialGreetings[text] && len([]rune(userMessages[0])) > GreetingMaxLength
}
