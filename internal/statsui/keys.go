package statsui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevTab    key.Binding
	NextTab    key.Binding
	Scroll     key.Binding
	WindowDown key.Binding
	WindowUp   key.Binding
	Settings   key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	AllDays    key.Binding
	Delete     key.Binding
	DeleteAll  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PrevTab:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		NextTab:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Scroll:     key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		WindowDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller window")),
		WindowUp:   key.NewBinding(key.WithKeys("="), key.WithHelp("=", "larger window")),
		Settings:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
		PrevDay:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
		NextDay:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		AllDays:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all days")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete solve")),
		DeleteAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Scroll, k.WindowUp, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab, k.Scroll},
		{k.WindowDown, k.WindowUp, k.Settings},
		{k.Help, k.Quit},
	}
}

// solvesKeyMap adds the day and delete bindings shown on the solves tab.
type solvesKeyMap struct {
	keyMap
}

func (k solvesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevDay, k.NextDay, k.Delete, k.DeleteAll, k.Help, k.Quit}
}

func (k solvesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab, k.Scroll},
		{k.PrevDay, k.NextDay, k.AllDays},
		{k.Delete, k.DeleteAll, k.Settings},
		{k.WindowDown, k.WindowUp, k.Help, k.Quit},
	}
}
