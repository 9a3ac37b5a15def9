package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/adapters/driving/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive session dashboard",
	Long: `Opens a terminal dashboard showing the session state with live token
countdowns. The access token keeps being refreshed in the background
while the dashboard is open.

Controls:
  r  - Refresh now
  L  - Log out
  ?  - Toggle help
  q  - Quit`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Session: sessionService, Settings: settingsService})
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
