package model

// ToolProperty describes a single parameter in a tool's schema.
type ToolProperty struct {
	Type        string // "string", "number", or "boolean"
	Description string
}

// ToolDefinition describes a structured action the advisor may request the
// host application to perform. Description carries the natural-language
// invocation policy shown to the model.
type ToolDefinition struct {
	Properties  map[string]ToolProperty
	Name        string
	Description string
	Required    []string
	// Mutating marks tools that change persisted state and therefore
	// require explicit user confirmation before they may fire.
	Mutating bool
}

// ToolCall is a parsed, validated tool invocation returned by the advisor.
// All numeric arguments are float64 values; downstream callers rely on this
// and do not re-validate.
type ToolCall struct {
	Arguments map[string]any
	Name      string
}

// Number returns the named argument as a float64. The second return is
// false when the argument is absent or not numeric.
func (tc *ToolCall) Number(name string) (float64, bool) {
	v, ok := tc.Arguments[name]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// String returns the named argument as a string.
func (tc *ToolCall) String(name string) (string, bool) {
	v, ok := tc.Arguments[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
