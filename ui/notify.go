package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/reelsearch/tmdb"
)

// NoResultsMessage is shown when a committed query yields an empty page
const NoResultsMessage = "No movies found for your request."

// DefaultNotifyDuration is how long a toast stays visible
const DefaultNotifyDuration = 3 * time.Second

type toastKind int

const (
	toastError toastKind = iota
	toastSuccess
)

// Toast is a transient message at the top of the screen
type Toast struct {
	ID   int
	Text string
	Kind toastKind
}

// Notifier keeps the list of active toasts and schedules their expiry
type Notifier struct {
	toasts   []Toast
	nextID   int
	duration time.Duration
}

func NewNotifier(duration time.Duration) Notifier {
	if duration <= 0 {
		duration = DefaultNotifyDuration
	}
	return Notifier{duration: duration}
}

// Error shows an error toast
func (n *Notifier) Error(text string) tea.Cmd {
	return n.push(toastError, text)
}

// Success shows a success toast
func (n *Notifier) Success(text string) tea.Cmd {
	return n.push(toastSuccess, text)
}

func (n *Notifier) push(kind toastKind, text string) tea.Cmd {
	n.nextID++
	id := n.nextID
	n.toasts = append(n.toasts, Toast{ID: id, Text: text, Kind: kind})

	return tea.Tick(n.duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Expire removes the toast with id
func (n *Notifier) Expire(id int) {
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return
		}
	}
}

// Active returns the visible toasts, oldest first
func (n Notifier) Active() []Toast {
	return n.toasts
}

func (n Notifier) View(width int) string {
	if len(n.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		icon := toastErrorIconStyle.Render("✕ ")
		if t.Kind == toastSuccess {
			icon = toastSuccessIconStyle.Render("✓ ")
		}
		lines = append(lines, toastStyle.Render(icon+t.Text))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// NoResultsTracker decides when the empty-result notification fires: at most once
// per committed query, when results for it arrive empty.
type NoResultsTracker struct {
	query    string
	notified bool
}

// Arm prepares the tracker for a newly committed query. Re-arming with the same
// query keeps an earlier notification suppressed.
func (t *NoResultsTracker) Arm(query string) {
	if query == t.query {
		return
	}
	t.query = query
	t.notified = false
}

// ShouldNotify reports whether resp, which arrived for query, should produce the
// notification. It returns true at most once per armed query.
func (t *NoResultsTracker) ShouldNotify(query string, resp *tmdb.MoviesResponse) bool {
	if query == "" || resp == nil || !resp.IsEmpty() {
		return false
	}
	t.Arm(query)
	if t.notified {
		return false
	}
	t.notified = true
	return true
}
