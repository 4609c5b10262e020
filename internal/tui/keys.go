package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PagePrev key.Binding
	PageNext key.Binding
	Enter    key.Binding
	Tab      key.Binding

	// Views
	Search    key.Binding
	Filter    key.Binding
	Schedule  key.Binding
	Watchlist key.Binding
	Home      key.Binding

	// Actions
	Quit            key.Binding
	Help            key.Binding
	Escape          key.Binding
	Retry           key.Binding
	LoadMore        key.Binding
	Spin            key.Binding
	ToggleSaved     key.Binding
	Open            key.Binding
	ToggleInspector key.Binding
	ScrollUp        key.Binding
	ScrollDown      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		PagePrev: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous page/day"),
		),
		PageNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page/day"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details/select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "genres/content"),
		),

		// Views
		Search: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "schedule"),
		),
		Watchlist: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "my watchlist"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "load more"),
		),
		Spin: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "random pick"),
		),
		ToggleSaved: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "add/remove watchlist"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle inspector"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll inspector up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll inspector down"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
