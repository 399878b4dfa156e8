package llm

import (
	"context"
	"encoding/json"

	"github.com/Veraticus/pennywise/internal/model"
)

// ToolChoice controls whether the model must invoke a tool.
type ToolChoice string

const (
	// ToolChoiceNone omits the tool catalog entirely.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceAuto lets the model decide between prose and tools.
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceRequired forces the model to invoke at least one tool.
	ToolChoiceRequired ToolChoice = "required"
)

// CompletionRequest is a single chat-completion call.
type CompletionRequest struct {
	System      string
	Messages    []model.ChatMessage
	Tools       []model.ToolDefinition
	ToolChoice  ToolChoice
	Temperature float64
	MaxTokens   int
}

// RawToolCall is a tool invocation as returned by a provider, before
// validation against the catalog.
type RawToolCall struct {
	Arguments json.RawMessage
	Name      string
}

// CompletionResponse contains the assistant's reply.
type CompletionResponse struct {
	Text      string
	ToolCalls []RawToolCall
}

// Client defines the interface for chat-completion providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Config holds configuration for a completion client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}
