package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	refresh key.Binding
	stats   key.Binding
	flush   key.Binding
	local   key.Binding
	remote  key.Binding
	yank    key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	refresh: key.NewBinding(key.WithKeys("R")),
	stats:   key.NewBinding(key.WithKeys("s")),
	flush:   key.NewBinding(key.WithKeys("f")),
	local:   key.NewBinding(key.WithKeys("l")),
	remote:  key.NewBinding(key.WithKeys("r")),
	yank:    key.NewBinding(key.WithKeys("y")),
}
