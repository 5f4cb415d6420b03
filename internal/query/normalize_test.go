package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "What Happened To MM001?", expected: "what happened to mm001"},
		{name: "strips punctuation", input: "who repaired it?!", expected: "who repaired it"},
		{name: "keeps digits", input: "machine 001 in 2024", expected: "machine 001 in 2024"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"What is the ROOT cause of Spindle Overheating?!",
		"mm 001",
		"Total production loss (%) for 2024",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
