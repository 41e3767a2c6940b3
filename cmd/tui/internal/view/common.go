package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is implemented by every TUI screen.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// ChangedMsg is sent after a screen modified stored transactions so the
// session can be reloaded.
type ChangedMsg struct{}

func Changed() tea.Msg {
	return ChangedMsg{}
}
