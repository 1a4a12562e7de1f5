package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// searchView is the single screen of the application.
	searchView *search.View

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	searchView := search.NewView(s, keymap.DefaultKeyMap(), ports.Session, ports.Recent, ports.ResultAction)
	searchView.SetUser(ports.User)

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		searchView: searchView,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("notesearch"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.searchView.View()
}

// Run starts the TUI application and closes the session when it exits.
func (a *App) Run() error {
	defer a.ports.Session.Close()

	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(a.ctx),
	)
	_, err := p.Run()
	return err
}

// Snapshot returns the session state last rendered.
func (a *App) Snapshot() domain.SessionSnapshot {
	return a.searchView.Snapshot()
}

// Query returns the text of the search box.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}
