// Package cli provides the command-line interface for admindesk.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

var version = "dev"

// verbose enables debug logging for all commands.
var verbose bool

// ConfigWatcher reports changes to the configuration file.
type ConfigWatcher interface {
	Watch(ctx context.Context, debounce time.Duration, onChange func()) error
}

// Services are the driving ports the commands operate on.
type Services struct {
	Session  driving.SessionService
	API      driving.APIClient
	Settings driving.SettingsService
	// Watcher is optional; without it watch does not reload configuration.
	Watcher ConfigWatcher
	// Reconfigure applies a reloaded configuration to the running client and session.
	Reconfigure func(domain.ClientConfig)
}

var (
	sessionService  driving.SessionService
	apiClient       driving.APIClient
	settingsService driving.SettingsService
	configWatcher   ConfigWatcher
	reconfigure     func(domain.ClientConfig)
)

var rootCmd = &cobra.Command{
	Use:   "admindesk",
	Short: "Authenticated client for the admin backend",
	Long: `admindesk signs in to the admin backend and keeps the session alive.

Access tokens are refreshed shortly before they expire and whenever the
backend answers 401. Requests made with 'admindesk request' carry the
current token and are retried once after a refresh.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	sessionService = s.Session
	apiClient = s.API
	settingsService = s.Settings
	configWatcher = s.Watcher
	reconfigure = s.Reconfigure
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
