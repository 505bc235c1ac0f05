package chat

import "strings"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation. History always grows in
// user/assistant pairs; a lone user turn is never recorded.
type Turn struct {
	Role Role
	Text string
}

// renderHistory flattens turns into the transcript form the condense
// prompt expects: one "Human:" or "AI:" line per turn.
func renderHistory(turns []Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		label := "Human"
		if t.Role == RoleAssistant {
			label = "AI"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(t.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
