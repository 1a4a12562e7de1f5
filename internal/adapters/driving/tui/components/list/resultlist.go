// Package list renders search results grouped by source.
package list

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// ResultList displays grouped search results in a scrolling viewport.
//
// Selection is a flat index into the response results, owned by the search
// session; the list only mirrors it and scrolls the selected card into view.
// Collapsing is view state and survives new results for the same source.
type ResultList struct {
	groups    []domain.GroupedResults
	selected  int
	collapsed map[domain.SearchSource]bool
	viewport  viewport.Model
	styles    *styles.Styles
	now       func() time.Time
	width     int
	height    int

	// lineOf maps a flat index to the first content line of its card.
	lineOf map[int]int
	// cardHeight maps a flat index to the rendered height of its card.
	cardHeight map[int]int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		selected:   domain.NoSelection,
		collapsed:  make(map[domain.SearchSource]bool),
		viewport:   viewport.New(80, 10),
		styles:     s,
		now:        time.Now,
		width:      80,
		height:     10,
		lineOf:     make(map[int]int),
		cardHeight: make(map[int]int),
	}
}

// SetClock overrides the clock used for relative dates.
func (r *ResultList) SetClock(now func() time.Time) {
	r.now = now
	r.render()
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update forwards scroll messages, such as the mouse wheel, to the viewport.
// Key navigation goes through the session so the selection stays in sync.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return r, nil
	}
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

// View renders the visible part of the list.
func (r *ResultList) View() string {
	return r.viewport.View()
}

// Content renders the whole list regardless of scroll position.
func (r *ResultList) Content() string {
	return r.build()
}

// SetGroups replaces the groups and scrolls back to the top.
func (r *ResultList) SetGroups(groups []domain.GroupedResults) {
	r.groups = groups
	r.selected = domain.NoSelection
	r.render()
	r.viewport.GotoTop()
}

// Groups returns the current groups.
func (r *ResultList) Groups() []domain.GroupedResults {
	return r.groups
}

// SetSelected mirrors the session selection and scrolls it into view.
func (r *ResultList) SetSelected(index int) {
	if index == r.selected {
		return
	}
	r.selected = index
	r.render()
	r.scrollToSelected()
}

// Selected returns the mirrored selection.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedGroup returns the group holding the selection.
func (r *ResultList) SelectedGroup() (domain.SearchSource, bool) {
	for _, g := range r.groups {
		if g.Contains(r.selected) {
			return g.Source, true
		}
	}
	return "", false
}

// ToggleGroup collapses or expands the group holding the selection. With
// nothing selected it collapses every group, or expands them all when they
// are already collapsed.
func (r *ResultList) ToggleGroup() {
	if src, ok := r.SelectedGroup(); ok {
		r.collapsed[src] = !r.collapsed[src]
		r.render()
		r.scrollToSelected()
		return
	}

	allCollapsed := len(r.groups) > 0
	for _, g := range r.groups {
		if !r.collapsed[g.Source] {
			allCollapsed = false
			break
		}
	}
	for _, g := range r.groups {
		r.collapsed[g.Source] = !allCollapsed
	}
	r.render()
}

// IsCollapsed reports whether the group of src is collapsed.
func (r *ResultList) IsCollapsed(src domain.SearchSource) bool {
	return r.collapsed[src]
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.render()
	r.scrollToSelected()
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// YOffset returns the scroll position.
func (r *ResultList) YOffset() int {
	return r.viewport.YOffset
}

// Count returns the number of grouped results.
func (r *ResultList) Count() int {
	n := 0
	for _, g := range r.groups {
		n += g.Count()
	}
	return n
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return r.Count() == 0
}

func (r *ResultList) render() {
	r.viewport.SetContent(r.build())
}

func (r *ResultList) scrollToSelected() {
	line, ok := r.lineOf[r.selected]
	if !ok {
		return
	}
	h := r.cardHeight[r.selected]
	switch {
	case line < r.viewport.YOffset:
		r.viewport.SetYOffset(line)
	case line+h > r.viewport.YOffset+r.viewport.Height:
		r.viewport.SetYOffset(line + h - r.viewport.Height)
	}
}

// build renders every group and records where each card starts.
func (r *ResultList) build() string {
	r.lineOf = make(map[int]int)
	r.cardHeight = make(map[int]int)

	var b strings.Builder
	line := 0
	write := func(block string) {
		if line > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)
		line += lipgloss.Height(block)
	}

	for _, g := range r.groups {
		header := r.renderHeader(g)
		write(header)
		if r.collapsed[g.Source] {
			// Cards of a collapsed group scroll to their header.
			for _, pos := range g.Positions {
				r.lineOf[pos] = line - lipgloss.Height(header)
				r.cardHeight[pos] = lipgloss.Height(header)
			}
			continue
		}
		for i := range g.Results {
			pos := g.Positions[i]
			card := r.renderCard(&g.Results[i], pos == r.selected)
			r.lineOf[pos] = line
			r.cardHeight[pos] = lipgloss.Height(card)
			write(card)
		}
	}
	return b.String()
}

func (r *ResultList) renderHeader(g domain.GroupedResults) string {
	arrow := "▾"
	if r.collapsed[g.Source] {
		arrow = "▸"
	}
	badge := r.styles.Badge(g.Source).Render(g.Source.Icon())
	text := fmt.Sprintf("%s %s %s (%d)", arrow, badge, g.Source, g.Count())
	if r.collapsed[g.Source] && g.Contains(r.selected) {
		return r.styles.Selected.Render(text)
	}
	return r.styles.GroupHeader.Render(text)
}

func (r *ResultList) renderCard(result *domain.SearchResult, selected bool) string {
	inner := r.width - 4
	if inner < 20 {
		inner = 20
	}

	title := domain.DecodeEntities(result.Title)
	if title == "" {
		title = "(Untitled)"
	}
	titleStyle := r.styles.Normal.Bold(true)
	if selected {
		titleStyle = r.styles.Title
	}
	lines := []string{titleStyle.Render(truncate(title, inner))}

	meta := []string{}
	if summary := result.MetadataSummary(); summary != "" {
		meta = append(meta, summary)
	}
	if date := domain.RelativeDate(result.Date, r.now()); date != "" {
		meta = append(meta, date)
	}
	if len(meta) > 0 {
		lines = append(lines, r.styles.Muted.Render(truncate(strings.Join(meta, " · "), inner)))
	}

	if snippet := domain.SnippetText(result.Snippet); snippet != "" {
		lines = append(lines, r.styles.Normal.Render(truncate(snippet, inner)))
	}

	style := r.styles.Card
	if selected {
		style = r.styles.SelectedCard
	}
	return style.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to width runes, ending in "...".
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
