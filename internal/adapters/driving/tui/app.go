package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// App is the dashboard model following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	bar    *status.Bar

	session  domain.SessionStatus
	baseURL  string
	now      time.Time
	clock    func() time.Time
	showHelp bool
	width    int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the dashboard with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	app := &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		bar:    status.NewBar(s, km),
		clock:  time.Now,
	}
	app.now = app.clock()

	if ports.Settings != nil {
		if cfg, err := ports.Settings.Get(); err == nil {
			app.baseURL = cfg.BaseURL
		}
	}
	return app, nil
}

// WithContext sets the context for session calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init loads the first snapshot and starts the countdown.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("admindesk - session"),
		a.loadStatus(),
		a.tick(),
	)
}

// Update handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.bar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.Tick:
		a.now = msg.Now
		return a, tea.Batch(a.loadStatus(), a.tick())

	case messages.StatusLoaded:
		a.session = msg.Status
		return a, nil

	case messages.RefreshCompleted:
		if msg.Err != nil {
			a.bar.SetState(status.StateError)
			a.bar.SetMessage(msg.Err.Error())
		} else {
			a.bar.SetState(status.StateReady)
			a.bar.SetMessage("Token refreshed")
		}
		return a, a.loadStatus()

	case messages.LoggedOut:
		if msg.Err != nil {
			a.bar.SetState(status.StateError)
			a.bar.SetMessage(msg.Err.Error())
		} else {
			a.bar.SetState(status.StateLoggedOut)
		}
		return a, a.loadStatus()
	}

	var cmd tea.Cmd
	a.bar, cmd = a.bar.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case key.Matches(msg, a.keymap.Refresh):
		if a.bar.State() == status.StateRefreshing {
			return a, nil
		}
		return a, tea.Batch(a.bar.StartRefresh(), a.refresh())

	case key.Matches(msg, a.keymap.Logout):
		return a, a.logout()
	}
	return a, nil
}

// View renders the dashboard.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("admindesk session"))
	b.WriteString("\n\n")

	rows := []string{
		a.row("Session", a.styles.SessionState(a.session.State).Render(a.session.State.String())),
		a.row("Access token", a.expiry(a.session.AccessExpiresAt)),
		a.row("Refresh token", a.expiry(a.session.RefreshExpiresAt)),
		a.row("Auto refresh", a.schedule()),
	}
	if a.baseURL != "" {
		rows = append(rows, a.row("Backend", a.baseURL))
	}
	b.WriteString(a.styles.Panel.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if a.showHelp {
		b.WriteString("\n")
		b.WriteString(a.bar.FullHelp())
		b.WriteString("\n")
	}
	b.WriteString(a.bar.View())
	return b.String()
}

func (a *App) row(label, value string) string {
	return a.styles.Label.Render(label) + value
}

func (a *App) expiry(at time.Time) string {
	if at.IsZero() {
		return a.styles.Muted.Render("unknown")
	}
	d := at.Sub(a.now).Round(time.Second)
	if d <= 0 {
		return a.styles.Error.Render(fmt.Sprintf("expired %s ago", -d))
	}
	return fmt.Sprintf("expires in %s", d)
}

func (a *App) schedule() string {
	state := a.session.Scheduler.String()
	if a.session.Scheduler != domain.SchedulerArmed || a.session.NextRefreshAt.IsZero() {
		return state
	}
	d := a.session.NextRefreshAt.Sub(a.now).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%s, next in %s", state, d)
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return messages.Tick{Now: t}
	})
}

func (a *App) loadStatus() tea.Cmd {
	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		return messages.StatusLoaded{Status: session.Status(ctx)}
	}
}

func (a *App) refresh() tea.Cmd {
	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		_, err := session.Refresh(ctx)
		return messages.RefreshCompleted{Err: err}
	}
}

func (a *App) logout() tea.Cmd {
	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		return messages.LoggedOut{Err: session.Logout(ctx)}
	}
}

// Session returns the last loaded snapshot.
func (a *App) Session() domain.SessionStatus {
	return a.session
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.bar
}
