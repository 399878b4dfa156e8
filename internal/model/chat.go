package model

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	// RoleUser marks a message written by the user.
	RoleUser ChatRole = "user"
	// RoleAssistant marks a message written by the advisor.
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single immutable turn in an advisory conversation.
type ChatMessage struct {
	Timestamp time.Time
	Role      ChatRole
	Content   string
}
