// Package status provides the status bar shown below the dashboard.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/styles"
)

// State represents what the dashboard is doing.
type State string

const (
	StateReady      State = "ready"
	StateRefreshing State = "refreshing"
	StateError      State = "error"
	StateLoggedOut  State = "logged out"
)

// Bar displays the dashboard activity and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	help    help.Model
	spinner spinner.Model
	state   State
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:  s,
		keymap:  km,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		state:   StateReady,
		width:   80,
	}
}

// Update animates the spinner while a refresh is running.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || s.state != StateRefreshing {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.help.ShortHelpView(s.keymap.ShortHelp())

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

// FullHelp renders every binding.
func (s *Bar) FullHelp() string {
	return s.help.FullHelpView(s.keymap.FullHelp())
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateRefreshing:
		return s.spinner.View() + " Refreshing..."
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateLoggedOut:
		return s.styles.Warning.Render("Logged out")
	}
	if s.message != "" {
		return s.styles.Success.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

// StartRefresh switches to the refreshing state and starts the spinner.
func (s *Bar) StartRefresh() tea.Cmd {
	s.state = StateRefreshing
	s.message = ""
	return s.spinner.Tick
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
	s.help.Width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
