package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCalls(t *testing.T) {
	t.Run("valid call passes through", func(t *testing.T) {
		raw := []RawToolCall{{
			Name:      "create_goal",
			Arguments: json.RawMessage(`{"title": "Emergency fund", "target_amount": 10000}`),
		}}

		calls, err := ParseToolCalls(raw)
		require.NoError(t, err)
		require.Len(t, calls, 1)

		amount, ok := calls[0].Number("target_amount")
		require.True(t, ok)
		assert.Equal(t, 10000.0, amount)
	})

	t.Run("numeric strings are coerced", func(t *testing.T) {
		raw := []RawToolCall{{
			Name:      "create_goal",
			Arguments: json.RawMessage(`{"title": "Vacation", "target_amount": "2500.50"}`),
		}}

		calls, err := ParseToolCalls(raw)
		require.NoError(t, err)

		// Downstream callers trust the types; the value must be a real
		// float64, not a string.
		amount, ok := calls[0].Number("target_amount")
		require.True(t, ok)
		assert.Equal(t, 2500.50, amount)
	})

	t.Run("missing required field fails", func(t *testing.T) {
		raw := []RawToolCall{{
			Name:      "create_goal",
			Arguments: json.RawMessage(`{"target_amount": 500}`),
		}}

		_, err := ParseToolCalls(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("non-numeric value in numeric field fails", func(t *testing.T) {
		raw := []RawToolCall{{
			Name:      "add_transaction",
			Arguments: json.RawMessage(`{"description": "lunch", "amount": "a lot", "type": "expense"}`),
		}}

		_, err := ParseToolCalls(raw)
		require.Error(t, err)
	})

	t.Run("unknown tool fails", func(t *testing.T) {
		raw := []RawToolCall{{
			Name:      "delete_everything",
			Arguments: json.RawMessage(`{}`),
		}}

		_, err := ParseToolCalls(raw)
		require.Error(t, err)
	})

	t.Run("empty input yields no calls", func(t *testing.T) {
		calls, err := ParseToolCalls(nil)
		require.NoError(t, err)
		assert.Empty(t, calls)
	})
}

func TestCatalogShape(t *testing.T) {
	defs := Catalog()
	assert.Len(t, defs, 9)

	byName := CatalogByName()
	for _, name := range []string{
		"create_goal", "create_event", "add_transaction", "create_group",
		"add_crypto_holding", "analyze_allocation", "payoff_strategy",
		"future_value", "retirement_needs",
	} {
		def, ok := byName[name]
		require.True(t, ok, "missing tool %s", name)
		assert.NotEmpty(t, def.Description)
		assert.NotEmpty(t, def.Properties)
	}

	// Only the three state-creating tools require confirmation.
	assert.True(t, byName["create_goal"].Mutating)
	assert.True(t, byName["create_event"].Mutating)
	assert.True(t, byName["create_group"].Mutating)
	assert.False(t, byName["add_transaction"].Mutating)
	assert.False(t, byName["add_crypto_holding"].Mutating)
	assert.False(t, byName["analyze_allocation"].Mutating)
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text untouched", input: "Save more.", expected: "Save more."},
		{name: "fenced block", input: "```\nSave more.\n```", expected: "Save more."},
		{name: "fenced with language", input: "```json\n{\"tip\": 1}\n```", expected: `{"tip": 1}`},
		{name: "surrounding whitespace", input: "  Save more.  ", expected: "Save more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMarkdownWrapper(tt.input))
		})
	}
}
