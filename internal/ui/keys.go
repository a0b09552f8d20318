package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	forward   key.Binding
	home      key.Binding
	artists   key.Binding
	playlists key.Binding
	users     key.Binding
	admin     key.Binding
	search    key.Binding
	location  key.Binding
	playing   key.Binding
	random    key.Binding
	selectRow key.Binding
	remove    key.Binding
	quick     key.Binding
	toggle    key.Binding
	next      key.Binding
	previous  key.Binding
	mute      key.Binding
	yes       key.Binding
	no        key.Binding
	logout    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		forward:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "forward")),
		home:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		artists:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "artists")),
		playlists: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "playlists")),
		users:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "users")),
		admin:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "admin")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		location:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
		playing:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "now playing")),
		random:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		selectRow: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove selected")),
		quick:     key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "quick playlist")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.location, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back, k.forward},
		{k.selectRow, k.remove, k.quick},
		{k.home, k.artists, k.playlists, k.users, k.admin},
		{k.search, k.location, k.playing, k.random},
		{k.toggle, k.next, k.previous, k.mute},
		{k.logout, k.quit},
	}
}
