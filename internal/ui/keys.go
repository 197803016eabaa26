package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the finder's bindings. Plain characters always go to the
// filter field, so every action sits on a control or navigation key.
type KeyMap struct {
	Select       key.Binding
	Quit         key.Binding
	HistoryPrev  key.Binding
	HistoryNext  key.Binding
	Complete     key.Binding
	RowDown      key.Binding
	RowUp        key.Binding
	Favorite     key.Binding
	CycleGroup   key.Binding
	CycleSort    key.Binding
	RadiusUp     key.Binding
	RadiusDown   key.Binding
	Refresh      key.Binding
	ToggleDetail key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
		Quit:         key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "close")),
		HistoryPrev:  key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older search")),
		HistoryNext:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer search")),
		Complete:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		RowDown:      key.NewBinding(key.WithKeys("ctrl+n", "pgdown"), key.WithHelp("^n", "next")),
		RowUp:        key.NewBinding(key.WithKeys("ctrl+p", "pgup"), key.WithHelp("^p", "prev")),
		Favorite:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^f", "favorite")),
		CycleGroup:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^g", "group")),
		CycleSort:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "sort")),
		RadiusUp:     key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("^→", "radius+")),
		RadiusDown:   key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("^←", "radius-")),
		Refresh:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "rescan")),
		ToggleDetail: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^d", "members")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Complete, k.Favorite, k.CycleGroup, k.CycleSort, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Quit, k.Complete, k.HistoryPrev, k.HistoryNext},
		{k.RowDown, k.RowUp, k.ToggleDetail, k.Favorite},
		{k.CycleGroup, k.CycleSort, k.RadiusUp, k.RadiusDown, k.Refresh},
	}
}
