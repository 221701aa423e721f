package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii untouched", "Tan Wei Ming", "Tan Wei Ming"},
		{"surrounding whitespace trimmed", "  Tan Wei Ming \t", "Tan Wei Ming"},
		{"fullwidth at sign folded", "user＠example.com", "user@example.com"},
		{"fullwidth digits folded", "Ｓ１２３４５６７Ｄ", "S1234567D"},
		{"zero width space stripped", "Tan\u200bWei", "TanWei"},
		{"zero width joiner stripped", "Tan\u200dWei", "TanWei"},
		{"bom stripped", "\ufeffTan Wei", "Tan Wei"},
		{"empty stays empty", "", ""},
		{"whitespace only collapses to empty", "  \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeString(tt.input))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, countWords(""))
	assert.Equal(t, 0, countWords("   "))
	assert.Equal(t, 1, countWords("Singapore"))
	assert.Equal(t, 4, countWords("12 Marina  Blvd\tSingapore"))
}
