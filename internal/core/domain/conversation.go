package domain

// DefaultMaxTurns is the default number of turns kept per conversation.
const DefaultMaxTurns = 10

// ConversationTurn is one human/assistant exchange.
type ConversationTurn struct {
	Human string `json:"human"`
	AI    string `json:"ai"`
}

// Chat roles used when replaying history to a generation provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
