package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings of the main screen and the detail overlay
type keyMap struct {
	Submit    key.Binding
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Close     key.Binding
	Add       key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/", "tab"),
			key.WithHelp("/", "edit search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "details"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "x"),
			key.WithHelp("esc", "close"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to radarr"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// gridHelp is shown while browsing results
type gridHelp keyMap

func (k gridHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.NextPage, k.PrevPage, k.Focus, k.Quit}
}

func (k gridHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Focus, k.Quit},
	}
}

// overlayHelp is shown while the detail overlay is open
type overlayHelp keyMap

func (k overlayHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Close, k.Add}
}

func (k overlayHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// searchHelp is shown while typing
type searchHelp keyMap

func (k searchHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ForceQuit}
}

func (k searchHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
