package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence from a model
// completion. Models frequently wrap JSON in ```json ... ``` despite being
// asked not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if matches := codeFenceRe.FindStringSubmatch(s); len(matches) == 2 {
		return strings.TrimSpace(matches[1])
	}
	return s
}

// NormalizeArraysToStrings rewrites arrays of strings inside JSON objects as
// comma-joined strings, so {"reason": ["a", "b"]} decodes into a string
// field. Top-level arrays are left alone; those are valid list results.
// Reports whether any rewrite happened.
func NormalizeArraysToStrings(jsonBytes []byte) ([]byte, bool, error) {
	var data any
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return nil, false, fmt.Errorf("parse JSON: %w", err)
	}

	changed := false
	normalized := normalizeValue(data, &changed, true)

	result, err := json.Marshal(normalized)
	if err != nil {
		return nil, false, fmt.Errorf("marshal normalized JSON: %w", err)
	}
	return result, changed, nil
}

func normalizeValue(value any, changed *bool, topLevel bool) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = normalizeValue(val, changed, false)
		}
		return result

	case []any:
		if !topLevel && isStringArray(v) {
			*changed = true
			return joinStrings(v)
		}
		result := make([]any, len(v))
		for i, elem := range v {
			result[i] = normalizeValue(elem, changed, false)
		}
		return result

	default:
		return value
	}
}

func isStringArray(arr []any) bool {
	if len(arr) == 0 {
		return false
	}
	for _, elem := range arr {
		if _, ok := elem.(string); !ok {
			return false
		}
	}
	return true
}

func joinStrings(arr []any) string {
	strs := make([]string, len(arr))
	for i, elem := range arr {
		strs[i] = elem.(string)
	}
	return strings.Join(strs, ", ")
}

// decodeCompletion turns a raw model completion into out, stripping fences
// first. Array normalization is only retried after a failed decode, so
// payloads whose schema legitimately contains string arrays decode as-is.
func decodeCompletion(response string, out any) error {
	cleaned := StripCodeFence(response)
	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	normalized, _, err := NormalizeArraysToStrings([]byte(cleaned))
	if err != nil {
		return fmt.Errorf("normalize completion: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("unmarshal completion: %w (response: %s)", err, truncate(cleaned, 200))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
