package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
)

// ParseToolCalls validates raw provider tool invocations against the
// catalog and returns typed calls. Required fields must be present, and
// every field the schema declares as a number comes back as a float64 —
// numeric strings are coerced, because downstream callers trust the types
// without re-validating.
func ParseToolCalls(raw []RawToolCall) ([]model.ToolCall, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	byName := CatalogByName()
	calls := make([]model.ToolCall, 0, len(raw))

	for _, rc := range raw {
		def, ok := byName[rc.Name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", rc.Name)
		}

		var args map[string]any
		if len(rc.Arguments) > 0 {
			if err := json.Unmarshal(rc.Arguments, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments for tool %q: %w", rc.Name, err)
			}
		}
		if args == nil {
			args = make(map[string]any)
		}

		for name, prop := range def.Properties {
			v, present := args[name]
			if !present {
				continue
			}
			if prop.Type == "number" {
				f, err := coerceNumber(v)
				if err != nil {
					return nil, fmt.Errorf("tool %q: argument %q: %w", rc.Name, name, err)
				}
				args[name] = f
			}
		}

		for _, required := range def.Required {
			if _, present := args[required]; !present {
				return nil, fmt.Errorf("tool %q: missing required argument %q", rc.Name, required)
			}
		}

		calls = append(calls, model.ToolCall{Name: rc.Name, Arguments: args})
	}

	return calls, nil
}

// coerceNumber turns a JSON value into a float64, accepting numeric
// strings the model sometimes emits.
func coerceNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// CleanMarkdownWrapper strips code fences the model sometimes wraps short
// replies in.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = strings.TrimPrefix(content, "```")
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
