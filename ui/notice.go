package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeFadeDelay is how long a transient notice stays visible.
const noticeFadeDelay = 3 * time.Second

type noticeLevel int

const (
	noticeSuccess noticeLevel = iota
	noticeError
)

// noticeMsg asks the root model to show a transient notice. Screens
// emit these as commands instead of touching shared state.
type noticeMsg struct {
	level noticeLevel
	text  string
}

// noticeFadeMsg clears the notice, but only if its generation still
// matches: a newer notice must not be clobbered by an older timer.
type noticeFadeMsg struct {
	seq int
}

func notifySuccess(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{level: noticeSuccess, text: text} }
}

func notifyError(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{level: noticeError, text: text} }
}
