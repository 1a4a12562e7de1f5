// Package keymap defines keybindings for the TUI and the table that turns
// key presses into commands.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the input focus the key press arrives in.
type Mode int

const (
	// ModeInput means the search box has focus and printable keys are text.
	ModeInput Mode = iota
	// ModeResults means the result list has focus.
	ModeResults
	// ModeHelp means the help overlay is open.
	ModeHelp
)

// Command is what a key press asks the search view to do.
type Command int

const (
	// CmdNone means the key is not bound in the mode.
	CmdNone Command = iota
	CmdSubmit
	CmdUp
	CmdDown
	CmdOpen
	CmdFocusInput
	CmdBlurInput
	CmdSelectNone
	CmdCopyLink
	CmdRetry
	CmdDismissAdvisory
	CmdToggleGroup
	CmdToggleHelp
	CmdQuit
	CmdClearRecent
	CmdNextSuggestion
	CmdPrevSuggestion
)

var commandNames = map[Command]string{
	CmdNone:            "none",
	CmdSubmit:          "submit",
	CmdUp:              "up",
	CmdDown:            "down",
	CmdOpen:            "open",
	CmdFocusInput:      "focus_input",
	CmdBlurInput:       "blur_input",
	CmdSelectNone:      "select_none",
	CmdCopyLink:        "copy_link",
	CmdRetry:           "retry",
	CmdDismissAdvisory: "dismiss_advisory",
	CmdToggleGroup:     "toggle_group",
	CmdToggleHelp:      "toggle_help",
	CmdQuit:            "quit",
	CmdClearRecent:     "clear_recent",
	CmdNextSuggestion:  "next_suggestion",
	CmdPrevSuggestion:  "prev_suggestion",
}

// String returns the command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Submit        key.Binding
	Blur          key.Binding
	Focus         key.Binding
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding
	Deselect      key.Binding
	Copy          key.Binding
	Retry         key.Binding
	Dismiss       key.Binding
	Collapse      key.Binding
	ClearRecent   key.Binding
	NextSuggested key.Binding
	PrevSuggested key.Binding

	table map[Mode][]entry
}

type entry struct {
	binding *key.Binding
	command Command
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	km := &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "results"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse group"),
		),
		ClearRecent: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear recent"),
		),
		NextSuggested: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next recent"),
		),
		PrevSuggested: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous recent"),
		),
	}

	// Earlier entries win when a key is bound twice in one mode.
	km.table = map[Mode][]entry{
		ModeInput: {
			{&km.ForceQuit, CmdQuit},
			{&km.Submit, CmdSubmit},
			{&km.Blur, CmdBlurInput},
			{&km.ClearRecent, CmdClearRecent},
			{&km.NextSuggested, CmdNextSuggestion},
			{&km.PrevSuggested, CmdPrevSuggestion},
		},
		ModeResults: {
			{&km.ForceQuit, CmdQuit},
			{&km.Quit, CmdQuit},
			{&km.Help, CmdToggleHelp},
			{&km.Focus, CmdFocusInput},
			{&km.Up, CmdUp},
			{&km.Down, CmdDown},
			{&km.Open, CmdOpen},
			{&km.Deselect, CmdSelectNone},
			{&km.Copy, CmdCopyLink},
			{&km.Retry, CmdRetry},
			{&km.Dismiss, CmdDismissAdvisory},
			{&km.Collapse, CmdToggleGroup},
			{&km.ClearRecent, CmdClearRecent},
		},
		ModeHelp: {
			{&km.ForceQuit, CmdQuit},
			{&km.Quit, CmdQuit},
			{&km.Help, CmdToggleHelp},
			{&km.Deselect, CmdToggleHelp},
		},
	}
	return km
}

// Resolve maps a key press in mode to a command. Unbound keys resolve to
// CmdNone; in ModeInput they are text for the search box.
func (k *KeyMap) Resolve(mode Mode, msg tea.KeyMsg) Command {
	for _, e := range k.table[mode] {
		if key.Matches(msg, *e.binding) {
			return e.command
		}
	}
	return CmdNone
}

// ShortHelp returns the hints shown in the status bar for mode.
func (k *KeyMap) ShortHelp(mode Mode) []key.Binding {
	switch mode {
	case ModeInput:
		return []key.Binding{k.Submit, k.NextSuggested, k.Blur, k.ForceQuit}
	case ModeHelp:
		return []key.Binding{k.Help, k.Quit}
	default:
		return []key.Binding{k.Down, k.Open, k.Copy, k.Focus, k.Help, k.Quit}
	}
}

// FullHelp returns the grouped bindings shown in the help overlay.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Deselect},
		{k.Focus, k.Submit, k.NextSuggested, k.Blur},
		{k.Copy, k.Retry, k.Dismiss, k.Collapse},
		{k.ClearRecent, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
