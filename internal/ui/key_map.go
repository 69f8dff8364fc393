package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	organize  key.Binding
	stop      key.Binding
	stopAll   key.Binding
	upload    key.Binding
	create    key.Binding
	remove    key.Binding
	remote    key.Binding
	local     key.Binding
	refresh   key.Binding
	copyPath  key.Binding
	toggle    key.Binding
	nextField key.Binding
	prevField key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		organize:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "organize")),
		stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		stopAll:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stop all")),
		upload:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new category")),
		remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove empty")),
		remote:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle remote")),
		local:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle local")),
		refresh:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		copyPath:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		nextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next folder")),
		prevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev folder")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.organize, k.stop, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.organize},
		{k.stop, k.stopAll, k.remote, k.local},
		{k.upload, k.create, k.remove, k.refresh},
		{k.copyPath, k.back, k.help, k.quit},
	}
}
