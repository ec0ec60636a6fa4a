package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"huddle/models"
)

// Authenticator is the identity provider contract: it turns
// credentials into a signed-in user. The HTTP client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.User, error)
	Register(ctx context.Context, username, email, password string) (models.User, error)
}

type authResultMsg struct {
	user models.User
	err  error
}

// LoginModel is the sign-in gate. Every other screen is unreachable
// until it produces a signed-in user.
type LoginModel struct {
	auth  Authenticator
	theme Theme

	width  int
	height int

	registering bool
	username    textinput.Model
	email       textinput.Model
	password    textinput.Model
	focus       int
	submitting  bool
}

func newLoginModel(auth Authenticator, theme Theme) LoginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "  "
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  "

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  "
	password.EchoMode = textinput.EchoPassword

	return LoginModel{
		auth:     auth,
		theme:    theme,
		username: username,
		email:    email,
		password: password,
	}
}

func (l LoginModel) setSize(width, height int) LoginModel {
	l.width = width
	l.height = height
	return l
}

func (l LoginModel) fieldCount() int {
	if l.registering {
		return 3
	}
	return 2
}

// fields returns the visible inputs in focus order.
func (l *LoginModel) fields() []*textinput.Model {
	if l.registering {
		return []*textinput.Model{&l.username, &l.email, &l.password}
	}
	return []*textinput.Model{&l.username, &l.password}
}

func (l LoginModel) setFocus(index int) LoginModel {
	l.focus = index
	for i, field := range l.fields() {
		if i == index {
			field.Focus()
		} else {
			field.Blur()
		}
	}
	return l
}

func (l LoginModel) submit() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(l.username.Value())
	email := strings.TrimSpace(l.email.Value())
	password := l.password.Value()
	if username == "" || password == "" || (l.registering && email == "") {
		return l, notifyError("All fields are required")
	}

	l.submitting = true
	auth := l.auth
	registering := l.registering
	return l, func() tea.Msg {
		var user models.User
		var err error
		if registering {
			user, err = auth.Register(context.Background(), username, email, password)
		} else {
			user, err = auth.Login(context.Background(), username, password)
		}
		return authResultMsg{user: user, err: err}
	}
}

func (l LoginModel) update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		l.submitting = false
		if msg.err != nil {
			if l.registering {
				return l, notifyError("Registration failed")
			}
			return l, notifyError("Sign in failed")
		}
		return l, nil

	case tea.KeyMsg:
		if l.submitting {
			return l, nil
		}

		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			return l.setFocus((l.focus + 1) % l.fieldCount()), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return l.setFocus((l.focus + l.fieldCount() - 1) % l.fieldCount()), nil
		case tea.KeyEnter:
			if l.focus < l.fieldCount()-1 {
				return l.setFocus(l.focus + 1), nil
			}
			return l.submit()
		case tea.KeyCtrlR:
			l.registering = !l.registering
			return l.setFocus(0), nil
		}

		field := l.fields()[l.focus]
		var cmd tea.Cmd
		*field, cmd = field.Update(msg)
		return l, cmd
	}

	return l, nil
}

func (l LoginModel) view() string {
	title := "Sign in to Huddle"
	action := "Enter sign in · C-r register instead"
	if l.registering {
		title = "Create a Huddle account"
		action = "Enter register · C-r sign in instead"
	}
	if l.submitting {
		action = "..."
	}

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Foreground(l.theme.Accent).Bold(true).Render(title), "")
	for _, field := range l.fields() {
		lines = append(lines, field.View())
	}
	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(l.theme.HelpText).Render(action))

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(l.theme.BorderColor).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, form)
}
