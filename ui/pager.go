package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// MaxPages is the highest page TMDB serves for a search
	MaxPages = 500

	pageRangeDisplayed = 5
	marginPagesShown   = 1
)

// PageItem is one control in the pager: a page number or a gap
type PageItem struct {
	Page     int
	Active   bool
	Ellipsis bool
}

// Pager tracks the current page of a result set and emits PageChangedMsg on
// navigation. Pages are 1-based at its boundary.
type Pager struct {
	model    paginator.Model
	maxPages int
}

func NewPager(maxPages int) Pager {
	if maxPages <= 0 || maxPages > MaxPages {
		maxPages = MaxPages
	}

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = 1
	p.TotalPages = 1

	return Pager{model: p, maxPages: maxPages}
}

// Visible reports whether the pager should render for a result set
func Visible(totalPages, results int) bool {
	return totalPages > 1 && results > 0
}

// SetTotal sets the number of navigable pages, capped at the maximum
func (p *Pager) SetTotal(totalPages int) {
	p.model.TotalPages = max(1, min(totalPages, p.maxPages))
	if p.model.Page >= p.model.TotalPages {
		p.model.Page = p.model.TotalPages - 1
	}
}

// SetPage moves to a 1-based page without emitting a message
func (p *Pager) SetPage(page int) {
	p.model.Page = max(0, min(page-1, p.model.TotalPages-1))
}

// Page returns the current 1-based page
func (p Pager) Page() int {
	return p.model.Page + 1
}

// Total returns the number of navigable pages
func (p Pager) Total() int {
	return p.model.TotalPages
}

// Clamp limits a requested 1-based page to the navigable range
func (p Pager) Clamp(page int) int {
	return max(1, min(page, p.model.TotalPages))
}

func (p Pager) Next() tea.Cmd {
	if p.model.OnLastPage() {
		return nil
	}
	return p.goTo(p.Page() + 1)
}

func (p Pager) Prev() tea.Cmd {
	if p.model.OnFirstPage() {
		return nil
	}
	return p.goTo(p.Page() - 1)
}

func (p Pager) First() tea.Cmd {
	return p.goTo(1)
}

func (p Pager) Last() tea.Cmd {
	return p.goTo(p.Total())
}

func (p Pager) goTo(page int) tea.Cmd {
	page = p.Clamp(page)
	if page == p.Page() {
		return nil
	}
	return func() tea.Msg {
		return PageChangedMsg{Page: page}
	}
}

// Items returns the windowed list of page controls: the first and last pages
// plus up to pageRangeDisplayed pages around the current one, with gaps marked.
func (p Pager) Items() []PageItem {
	total := p.Total()
	selected := p.model.Page

	if total <= pageRangeDisplayed {
		items := make([]PageItem, 0, total)
		for i := 0; i < total; i++ {
			items = append(items, PageItem{Page: i + 1, Active: i == selected})
		}
		return items
	}

	left := pageRangeDisplayed / 2
	right := pageRangeDisplayed - left
	switch {
	case selected > total-right:
		right = total - selected
		left = pageRangeDisplayed - right
	case selected < left:
		left = selected
		right = pageRangeDisplayed - left
	}
	if selected == 0 {
		right--
	}

	var items []PageItem
	for i := 0; i < total; i++ {
		page := i + 1
		switch {
		case page <= marginPagesShown,
			page > total-marginPagesShown,
			i >= selected-left && i <= selected+right:
			items = append(items, PageItem{Page: page, Active: i == selected})
		case len(items) > 0 && !items[len(items)-1].Ellipsis:
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	return items
}

func (p Pager) View() string {
	var b strings.Builder

	prev := pageStyle.Render("←")
	if p.model.OnFirstPage() {
		prev = disabledPageStyle.Render("←")
	}
	b.WriteString(prev)

	for _, item := range p.Items() {
		switch {
		case item.Ellipsis:
			b.WriteString(disabledPageStyle.Render("…"))
		case item.Active:
			b.WriteString(activePageStyle.Render(fmt.Sprint(item.Page)))
		default:
			b.WriteString(pageStyle.Render(fmt.Sprint(item.Page)))
		}
	}

	next := pageStyle.Render("→")
	if p.model.OnLastPage() {
		next = disabledPageStyle.Render("→")
	}
	b.WriteString(next)

	return b.String()
}
