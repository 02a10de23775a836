package agent

import (
	"encoding/json"
)

// ToolCall is a parsed tool invocation from model output.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// ExtractToolCall scans model output for an embedded tool-call object.
// Models frequently wrap the JSON in prose, so this takes the first '{'
// and walks to its matching brace, honoring strings and escapes, before
// unmarshaling. Anything that doesn't parse into an object with a "tool"
// field is treated as a plain answer.
func ExtractToolCall(text string) (ToolCall, bool) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return ToolCall{}, false
	}

	var call ToolCall
	if err := json.Unmarshal([]byte(raw), &call); err != nil {
		return ToolCall{}, false
	}
	if call.Tool == "" {
		return ToolCall{}, false
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	return call, true
}

// firstJSONObject returns the substring from the first '{' to its matching
// closing brace.
func firstJSONObject(text string) (string, bool) {
	start := -1
	for i, r := range text {
		if r == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
