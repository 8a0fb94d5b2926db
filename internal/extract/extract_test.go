package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCleanPayload(t *testing.T) {
	v, err := Extract(`{"calories": 120, "description": "banana"}`)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(120), m["calories"])
	assert.Equal(t, "banana", m["description"])
}

func TestExtractStripsPreambleAndFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"markdown fence", "```json\n[{\"description\": \"rice\"}]\n```"},
		{"bare fence", "```\n[{\"description\": \"rice\"}]\n```"},
		{"prose preamble", "Sure! Here is the analysis you asked for:\n[{\"description\": \"rice\"}]"},
		{"prose and fence", "Here you go:\n```json\n[{\"description\": \"rice\"}]\n```\nLet me know if you need more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Extract(tt.in)
			require.NoError(t, err)

			arr, ok := v.([]any)
			require.True(t, ok)
			require.Len(t, arr, 1)
			assert.Equal(t, "rice", arr[0].(map[string]any)["description"])
		})
	}
}

func TestExtractRepairsTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int // element count after repair
	}{
		{"unclosed object", `[{"description": "egg", "calories": 70}`, 1},
		{"unclosed string", `[{"description": "oatmeal with ba`, 1},
		{"dangling comma", `[{"description": "egg", "calories": 70},`, 1},
		{"cut mid second element", `[{"description": "egg", "calories": 70}, {"description":`, 1},
		{"nested truncation", `{"items": [{"description": "egg"}, {"description": "toast"`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Extract(tt.in)
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestExtractSalvageKeepsCompleteElements(t *testing.T) {
	// The second element is cut inside a key, so closing containers alone
	// yields a key with no value. Salvage should truncate back to the first
	// complete element rather than fail.
	v, err := Extract(`[{"description": "egg", "calories": 70}, {"descr`)
	require.NoError(t, err)

	arr, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, arr, 1)
	assert.Equal(t, "egg", arr[0].(map[string]any)["description"])
}

func TestExtractBracesInsideStrings(t *testing.T) {
	// Braces inside quoted text must not be counted as structure.
	v, err := Extract(`{"description": "a {note} with [brackets]", "calories": 5`)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a {note} with [brackets]", m["description"])
	assert.Equal(t, float64(5), m["calories"])
}

func TestExtractEscapedQuoteInString(t *testing.T) {
	v, err := Extract(`{"description": "say \"hi\"", "calories": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, v.(map[string]any)["description"])
}

func TestExtractUnparseable(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"prose only", "I cannot analyze that for you."},
		{"no boundary", "calories: 120, protein: 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.in)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}
