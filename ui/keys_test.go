package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/stretchr/testify/assert"
)

func TestHelpBindingsHaveText(t *testing.T) {
	keys := defaultKeyMap()
	helps := map[string]help.KeyMap{
		"grid":    gridHelp(keys),
		"overlay": overlayHelp(keys),
		"search":  searchHelp(keys),
	}

	for name, h := range helps {
		t.Run(name, func(t *testing.T) {
			for _, group := range append(h.FullHelp(), h.ShortHelp()) {
				for _, b := range group {
					assert.NotEmpty(t, b.Help().Key, "binding %v", b.Keys())
					assert.NotEmpty(t, b.Help().Desc, "binding %v", b.Keys())
				}
			}
		})
	}
}

func TestSearchHelpShowsQuit(t *testing.T) {
	view := help.New().ShortHelpView(searchHelp(defaultKeyMap()).ShortHelp())
	assert.Contains(t, view, "ctrl+c")
	assert.Contains(t, view, "quit")
}
