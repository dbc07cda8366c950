package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.in))
		})
	}
}

func TestNormalizeArraysToStrings(t *testing.T) {
	out, changed, err := NormalizeArraysToStrings([]byte(`{"reason": ["a", "b"], "n": 1}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.JSONEq(t, `{"reason": "a, b", "n": 1}`, string(out))
}

func TestNormalizeArraysToStrings_TopLevelArrayKept(t *testing.T) {
	out, changed, err := NormalizeArraysToStrings([]byte(`["a", "b"]`))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.JSONEq(t, `["a", "b"]`, string(out))
}

func TestDecodeCompletion_PlainDecodeKeepsArrays(t *testing.T) {
	var got struct {
		Topics []string `json:"topics"`
	}
	err := decodeCompletion("```json\n{\"topics\": [\"roadmap\", \"hiring\"]}\n```", &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"roadmap", "hiring"}, got.Topics)
}

func TestDecodeCompletion_NormalizesOnMismatch(t *testing.T) {
	var got struct {
		Reason string `json:"reason"`
	}
	err := decodeCompletion(`{"reason": ["shared topic", "same people"]}`, &got)
	require.NoError(t, err)
	assert.Equal(t, "shared topic, same people", got.Reason)
}

func TestDecodeCompletion_GarbageFails(t *testing.T) {
	var got map[string]any
	err := decodeCompletion("not json at all", &got)
	assert.Error(t, err)
}
