package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const searchPlaceholder = "Search movies"

// SearchBar collects free text and hands it over on submission
type SearchBar struct {
	input textinput.Model
}

// NewSearchBar returns a focused, empty search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = searchPlaceholder
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	ti.Width = 40
	ti.Focus()

	return SearchBar{input: ti}
}

// Submit returns the trimmed text. The boolean is false for blank input, in which
// case nothing should be committed.
func (s SearchBar) Submit() (string, bool) {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return "", false
	}
	return text, true
}

// Value returns the raw text
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetValue replaces the text
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

// SetWidth sets the visible width of the input
func (s *SearchBar) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	s.input.Width = w
}

func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

func (s *SearchBar) Blur() {
	s.input.Blur()
}

func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Update forwards input events to the text field
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s SearchBar) View() string {
	style := searchBoxStyle
	if s.Focused() {
		style = searchBoxFocusedStyle
	}
	return style.Render(s.input.View())
}
