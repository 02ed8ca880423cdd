package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchBarSubmit(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   string
		wantOK bool
	}{
		{"plain text", "batman", "batman", true},
		{"trimmed", "  the thing  ", "the thing", true},
		{"empty", "", "", false},
		{"whitespace only", "   \t ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSearchBar()
			s.SetValue(tt.value)

			got, ok := s.Submit()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchBarFocus(t *testing.T) {
	s := NewSearchBar()
	assert.True(t, s.Focused())

	s.Blur()
	assert.False(t, s.Focused())

	s.Focus()
	assert.True(t, s.Focused())
}
