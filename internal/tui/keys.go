package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up     key.Binding
	down   key.Binding
	grab   key.Binding
	drop   key.Binding
	cancel key.Binding
	reload key.Binding
	help   key.Binding
	quit   key.Binding
}

func newManageKeys() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		grab:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop here")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.grab, k.drop, k.cancel, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.grab, k.drop, k.cancel},
		{k.reload, k.help, k.quit},
	}
}

type learnKeyMap struct {
	up          key.Binding
	down        key.Binding
	open        key.Binding
	next        key.Binding
	previous    key.Binding
	toggle      key.Binding
	expand      key.Binding
	certificate key.Binding
	help        key.Binding
	quit        key.Binding
}

func newLearnKeys() learnKeyMap {
	return learnKeyMap{
		up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		next:        key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next lesson")),
		previous:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous lesson")),
		toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark complete")),
		expand:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "expand section")),
		certificate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "certificate")),
		help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k learnKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.toggle, k.next, k.previous, k.certificate, k.quit}
}

func (k learnKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.expand},
		{k.open, k.next, k.previous},
		{k.toggle, k.certificate},
		{k.help, k.quit},
	}
}

type browseKeyMap struct {
	up     key.Binding
	down   key.Binding
	search key.Binding
	open   key.Binding
	back   key.Binding
	enroll key.Binding
	quit   key.Binding
}

func newBrowseKeys() browseKeyMap {
	return browseKeyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		enroll: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "enroll")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.open, k.enroll, k.back, k.quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down}, {k.search, k.open, k.back}, {k.enroll, k.quit}}
}
