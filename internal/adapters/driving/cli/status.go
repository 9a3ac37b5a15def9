package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(16)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	Long: `Shows whether a session is stored, when its tokens expire and when the
next proactive refresh is due. Expiry times are read from the token payload
without verifying it and are informational only.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	status := sessionService.Status(context.Background())
	cmd.Print(renderStatus(status, time.Now()))
	return nil
}

// renderStatus formats a session snapshot relative to now.
func renderStatus(status domain.SessionStatus, now time.Time) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + value + "\n"
	}

	out := row("Session", stateStyle(status.State).Render(status.State.String()))
	out += row("Access token", describeExpiry(status.AccessExpiresAt, now))
	out += row("Refresh token", describeExpiry(status.RefreshExpiresAt, now))

	refresh := status.Scheduler.String()
	if status.Scheduler == domain.SchedulerArmed && !status.NextRefreshAt.IsZero() {
		refresh = fmt.Sprintf("%s, next %s", refresh, relative(status.NextRefreshAt, now))
	}
	out += row("Auto refresh", refresh)
	return out
}

func stateStyle(state domain.SessionState) lipgloss.Style {
	switch state {
	case domain.SessionAuthenticated:
		return okStyle
	case domain.SessionExpiring:
		return warnStyle
	default:
		return errStyle
	}
}

func describeExpiry(at, now time.Time) string {
	if at.IsZero() {
		return mutedStyle.Render("unknown")
	}
	if !at.After(now) {
		return errStyle.Render("expired " + relative(at, now))
	}
	return "expires " + relative(at, now)
}

// relative renders t as "in 4m30s" or "2m ago" at second precision.
func relative(t, now time.Time) string {
	d := t.Sub(now).Round(time.Second)
	switch {
	case d > 0:
		return "in " + d.String()
	case d < 0:
		return (-d).String() + " ago"
	default:
		return "now"
	}
}
