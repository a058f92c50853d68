package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message within a conversation. Immutable once
// appended to a conversation's history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
