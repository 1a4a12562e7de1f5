// Package search provides the search view of the TUI: the query box with
// recent suggestions, grouped results, the advisory and the status bar.
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/components/banner"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// View is the search view. All search state lives in the session; the view
// keeps only presentation state (focus, collapsed groups, dismissal).
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar
	advisory  *banner.Advisory

	session driving.SearchSession
	recent  driving.RecentSearchService
	actions driving.ResultActionService
	ctx     context.Context

	snap       domain.SessionSnapshot
	shown      *domain.SearchResponse
	recentList []domain.RecentSearch
	recentCh   <-chan struct{}
	generation int

	mode     keymap.Mode
	prevMode keymap.Mode
	width    int
	height   int
	ready    bool
}

// NewView creates a new search view over session. recent and actions may
// be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SearchSession,
	recent driving.RecentSearchService,
	actions driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		advisory:  banner.NewAdvisory(s),
		session:   session,
		recent:    recent,
		actions:   actions,
		ctx:       context.Background(),
		mode:      keymap.ModeInput,
		width:     80,
		height:    24,
	}
	if session != nil {
		v.input.SetValue(session.QueryText())
		v.sync()
	}
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetUser shows the signed-in identity in the status bar.
func (v *View) SetUser(user domain.User) {
	if !user.IsAnonymous() {
		v.statusbar.SetUser(user.DisplayName())
	}
}

// Init initialises the view and starts watching the recent list.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.watchRecent())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.session == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		v.statusbar.ClearNotice()
		return v.handleKey(msg)

	case messages.SearchSettled:
		cmd := v.sync()
		if msg.Generation == v.generation && v.snap.State != domain.SessionLoading {
			v.setMode(keymap.ModeResults)
		}
		return v, cmd

	case messages.RecentChanged:
		v.session.ReloadRecent(v.ctx)
		v.sync()
		return v, waitForRecent(v.recentCh)

	case messages.RecentWatchEnded:
		v.recentCh = nil
		return v, nil

	case messages.ActionCompleted:
		v.handleActionCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetNotice(domain.UserMessage(msg.Err), true)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.statusbar, cmd = v.statusbar.Update(msg)
		return v, cmd
	}

	var cmds []tea.Cmd
	if v.mode == keymap.ModeInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	command := v.keymap.Resolve(v.mode, msg)

	switch v.mode {
	case keymap.ModeInput:
		return v.handleInputCommand(command, msg)
	case keymap.ModeHelp:
		switch command { //nolint:exhaustive // other commands are unbound in help
		case keymap.CmdQuit:
			return v, tea.Quit
		case keymap.CmdToggleHelp:
			v.setMode(v.prevMode)
		}
		return v, nil
	default:
		return v.handleResultsCommand(command)
	}
}

//nolint:exhaustive // only input mode commands are resolved here
func (v *View) handleInputCommand(command keymap.Command, msg tea.KeyMsg) (*View, tea.Cmd) {
	switch command {
	case keymap.CmdQuit:
		return v, tea.Quit

	case keymap.CmdSubmit:
		if r, ok := v.input.Highlighted(); ok {
			return v, v.selectRecent(r.Query)
		}
		v.session.SetQueryText(v.input.Value())
		return v, v.submit()

	case keymap.CmdBlurInput:
		if _, ok := v.input.Highlighted(); ok {
			v.input.ClearHighlight()
			return v, nil
		}
		v.setMode(keymap.ModeResults)
		return v, nil

	case keymap.CmdClearRecent:
		v.session.ClearRecent(v.ctx)
		v.sync()
		return v, nil

	case keymap.CmdNextSuggestion:
		v.input.NextSuggestion()
		return v, nil

	case keymap.CmdPrevSuggestion:
		v.input.PrevSuggestion()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.session.SetQueryText(v.input.Value())
	return v, cmd
}

//nolint:exhaustive // only results mode commands are resolved here
func (v *View) handleResultsCommand(command keymap.Command) (*View, tea.Cmd) {
	switch command {
	case keymap.CmdQuit:
		return v, tea.Quit

	case keymap.CmdToggleHelp:
		v.prevMode = v.mode
		v.setMode(keymap.ModeHelp)

	case keymap.CmdFocusInput:
		v.setMode(keymap.ModeInput)
		return v, v.input.Focus()

	case keymap.CmdDown:
		v.session.MoveSelection(1)
		v.sync()

	case keymap.CmdUp:
		v.session.MoveSelection(-1)
		v.sync()

	case keymap.CmdSelectNone:
		v.session.SelectNone()
		v.sync()

	case keymap.CmdOpen:
		return v, v.runAction(messages.ActionOpen)

	case keymap.CmdCopyLink:
		return v, v.runAction(messages.ActionCopy)

	case keymap.CmdRetry:
		return v, v.retry()

	case keymap.CmdDismissAdvisory:
		v.advisory.Dismiss()

	case keymap.CmdToggleGroup:
		v.list.ToggleGroup()

	case keymap.CmdClearRecent:
		v.session.ClearRecent(v.ctx)
		v.sync()
		v.statusbar.SetNotice("Recent searches cleared", false)
	}
	return v, nil
}

// submit starts a search for the session buffer. An empty buffer does
// nothing.
func (v *View) submit() tea.Cmd {
	done, ok := v.session.Submit(v.ctx)
	if !ok {
		return nil
	}
	v.generation++
	v.input.ClearHighlight()
	spin := v.sync()
	return tea.Batch(spin, waitForSettled(done, v.snap.CommittedQuery, v.generation))
}

// selectRecent shows the recent query, served from the cache when the
// session has a fresh response for it and searched otherwise.
func (v *View) selectRecent(query string) tea.Cmd {
	v.input.SetValue(query)
	v.session.SelectRecent(query)
	if v.session.Snapshot().ShowsCommitted() {
		v.sync()
		v.setMode(keymap.ModeResults)
		return nil
	}
	return v.submit()
}

// retry resubmits the committed query after a failure.
func (v *View) retry() tea.Cmd {
	if v.snap.State != domain.SessionFailed || v.snap.CommittedQuery == "" {
		return nil
	}
	v.input.SetValue(v.snap.CommittedQuery)
	v.session.SetQueryText(v.snap.CommittedQuery)
	return v.submit()
}

func (v *View) runAction(kind messages.ActionKind) tea.Cmd {
	selected := v.snap.Selected()
	if selected == nil {
		return nil
	}
	if v.actions == nil {
		v.statusbar.SetNotice(ErrNoActions.Error(), true)
		return nil
	}
	result := *selected
	actions := v.actions
	ctx := v.ctx
	return func() tea.Msg {
		var err error
		switch kind {
		case messages.ActionCopy:
			err = actions.CopyLink(ctx, &result)
		default:
			err = actions.OpenResult(ctx, &result)
		}
		return messages.ActionCompleted{Action: kind, Title: result.Title, Err: err}
	}
}

func (v *View) handleActionCompleted(msg messages.ActionCompleted) {
	if msg.Err != nil {
		logger.Warn("%s %q failed: %v", msg.Action, msg.Title, msg.Err)
		v.statusbar.SetNotice(fmt.Sprintf("Could not %s link: %v", msg.Action, msg.Err), true)
		return
	}
	switch msg.Action {
	case messages.ActionCopy:
		v.statusbar.SetNotice("Link copied to clipboard", false)
	default:
		v.statusbar.SetNotice("Opened in browser", false)
	}
}

// sync copies the session snapshot into the components. It returns the
// spinner command when a search has just started.
func (v *View) sync() tea.Cmd {
	v.snap = v.session.Snapshot()

	if !slices.Equal(v.recentList, v.snap.Recent) {
		v.recentList = v.snap.Recent
		v.input.SetRecent(v.snap.Recent)
	}

	if v.snap.Response != v.shown {
		v.shown = v.snap.Response
		v.list.SetGroups(v.snap.Groups())
		v.advisory.SetErrors(v.snap.Response.ServiceErrors())
	}
	v.list.SetSelected(v.snap.SelectedIndex)

	v.statusbar.SetResultCount(len(v.snap.FlatResults()))
	return v.statusbar.SetState(v.snap.State)
}

func (v *View) setMode(mode keymap.Mode) {
	v.mode = mode
	v.statusbar.SetMode(mode)
	if mode == keymap.ModeInput {
		v.input.Focus()
		return
	}
	v.input.Blur()
}

func (v *View) watchRecent() tea.Cmd {
	if v.recent == nil {
		return nil
	}
	ch, err := v.recent.Changes(v.ctx)
	if err != nil {
		logger.Debug("recent searches will not refresh: %v", err)
		return nil
	}
	v.recentCh = ch
	return waitForRecent(ch)
}

func waitForSettled(done <-chan struct{}, query string, gen int) tea.Cmd {
	return func() tea.Msg {
		<-done
		return messages.SearchSettled{Query: query, Generation: gen}
	}
}

func waitForRecent(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return messages.RecentWatchEnded{}
		}
		return messages.RecentChanged{}
	}
}

// View renders the search view.
func (v *View) View() string {
	if v.session == nil {
		return v.styles.Error.Render(ErrNoSession.Error())
	}
	if !v.ready {
		return "Initialising..."
	}

	top := []string{v.renderHeader(), v.input.View()}
	if v.advisory.Visible() {
		v.advisory.SetWidth(v.width)
		top = append(top, v.advisory.View())
	}
	head := lipgloss.JoinVertical(lipgloss.Left, top...)
	bar := v.statusbar.View()

	bodyHeight := v.height - lipgloss.Height(head) - lipgloss.Height(bar) - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if v.mode == keymap.ModeHelp {
		body = v.renderHelp()
	} else {
		body = v.renderBody(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, head, body, bar)
}

func (v *View) renderHeader() string {
	return v.styles.Title.Render("notesearch") + v.styles.Muted.Render("  search your notes")
}

func (v *View) renderBody(height int) string {
	snap := v.snap

	switch {
	case snap.State == domain.SessionFailed:
		return v.renderError(snap.Err)

	case snap.State == domain.SessionLoading && !snap.ShowsCommitted():
		return v.styles.Muted.Render(fmt.Sprintf("Searching for %q...", snap.CommittedQuery))

	case !snap.HasSearched():
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			v.styles.Subtitle.Render("Search your notes"),
			v.styles.Muted.Render("Search across "+sourceNames()+" all at once."),
		)

	case snap.Response.IsEmpty():
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			v.styles.Subtitle.Render("No results found"),
			v.styles.Muted.Render(fmt.Sprintf("No results found for %q.", snap.CommittedQuery)),
			v.styles.Muted.Render("Try different keywords or check your service connections."),
		)
	}

	stats := v.renderStats()
	listHeight := height - lipgloss.Height(stats)
	if listHeight != v.list.Height() || v.width != v.list.Width() {
		v.list.SetDimensions(v.width, listHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, stats, v.list.View())
}

// renderStats renders `Found N results for "q"` and the elapsed seconds.
func (v *View) renderStats() string {
	resp := v.snap.Response
	if resp.TotalResults <= 0 {
		return ""
	}
	query := resp.Query
	if query == "" {
		query = v.snap.CommittedQuery
	}
	line := fmt.Sprintf("Found %s for %q", domain.Pluralise(resp.TotalResults, "result"), query)
	if v.snap.HasElapsed {
		line += fmt.Sprintf("  %.2fs", v.snap.Elapsed.Seconds())
	}
	return v.styles.Stats.Render(line)
}

func (v *View) renderError(err error) string {
	lines := []string{
		"",
		v.styles.Error.Bold(true).Render("Search failed"),
		v.styles.Error.Render(domain.UserMessage(err)),
	}
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		lines = append(lines, v.styles.Muted.Render("press r to retry"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *View) renderHelp() string {
	lines := []string{v.styles.Subtitle.Render("Keyboard shortcuts"), ""}
	for _, group := range v.keymap.FullHelp() {
		for _, b := range group {
			lines = append(lines, helpLine(b))
		}
		lines = append(lines, "")
	}
	lines = append(lines, v.styles.Muted.Render("press ? to close"))
	return v.styles.Border.Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-12s %s", h.Key, h.Desc)
}

func sourceNames() string {
	names := make([]string, 0, len(domain.DisplayOrder))
	for _, s := range domain.DisplayOrder {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.advisory.SetWidth(width)
	v.list.SetDimensions(width, height-10)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Mode returns the key mode.
func (v *View) Mode() keymap.Mode {
	return v.mode
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.mode == keymap.ModeInput
}

// Query returns the text of the search box.
func (v *View) Query() string {
	return v.input.Value()
}

// Snapshot returns the session snapshot last rendered.
func (v *View) Snapshot() domain.SessionSnapshot {
	return v.snap
}

// AdvisoryVisible reports whether the partial-failure advisory is shown.
func (v *View) AdvisoryVisible() bool {
	return v.advisory.Visible()
}

// Notice returns the status bar notice.
func (v *View) Notice() string {
	return v.statusbar.Notice()
}

// IsCollapsed reports whether the group of src is collapsed.
func (v *View) IsCollapsed(src domain.SearchSource) bool {
	return v.list.IsCollapsed(src)
}
