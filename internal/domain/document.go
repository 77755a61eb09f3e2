package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DecodeDocument parses a serialized workspace tolerantly. A top level that is not an
// array yields no inputs; elements of the wrong shape yield empty inputs rather than errors.
func DecodeDocument(data []byte) ([]InteractionInput, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ValidationError{Message: "document is not valid JSON", Err: err}
	}

	items, ok := top.([]any)
	if !ok {
		return nil, nil
	}

	inputs := make([]InteractionInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, inputFromValue(item))
	}
	return inputs, nil
}

// EncodeDocument serializes a workspace as a JSON array
func EncodeDocument(w Workspace, pretty bool) ([]byte, error) {
	snapshot := w.Clone()
	if pretty {
		return json.MarshalIndent(snapshot, "", "  ")
	}
	return json.Marshal(snapshot)
}

func inputFromValue(v any) InteractionInput {
	obj, ok := v.(map[string]any)
	if !ok {
		return InteractionInput{}
	}

	return InteractionInput{
		ID:        stringField(obj, "id"),
		AgentName: stringField(obj, "agentName"),
		Role:      stringField(obj, "role"),
		Summary:   stringField(obj, "summary"),
		Variables: variablesField(obj["variables"]),
		Content:   stringField(obj, "content"),
		CreatedAt: timeField(obj, "createdAt"),
		UpdatedAt: timeField(obj, "updatedAt"),
	}
}

func stringField(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func timeField(obj map[string]any, key string) *time.Time {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// variablesField accepts an array of strings or a newline separated string
func variablesField(v any) []string {
	switch vals := v.(type) {
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Split(vals, "\n")
	default:
		return nil
	}
}
