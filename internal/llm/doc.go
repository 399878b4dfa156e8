// Package llm provides chat-completion clients for the advisory engine.
//
// The package exposes a provider-agnostic Client interface with Anthropic
// and OpenAI implementations, the fixed catalog of advisor tools, a
// validating tool-call parser, and the bucketed response cache used to
// avoid repeat completions for similar questions from users in the same
// financial bracket.
package llm
