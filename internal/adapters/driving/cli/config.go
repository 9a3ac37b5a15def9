package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Validates and stores a configuration value.

List values such as api.no_retry_paths are comma separated.
Run 'admindesk config show' for the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cfg, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cmd.Printf("Configuration (%s)\n", settingsService.Path())
	cmd.Println()
	for _, line := range describeConfig(cfg) {
		cmd.Println("  " + line)
	}
	cmd.Println()
	cmd.Printf("Keys: %s\n", strings.Join(settingsService.Keys(), ", "))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func describeConfig(cfg domain.ClientConfig) []string {
	rate := "off"
	if cfg.RateLimit > 0 {
		rate = fmt.Sprintf("%g req/s, burst %d", cfg.RateLimit, cfg.RateBurst)
	}
	noRetry := strings.Join(cfg.NoRetryPaths, ", ")
	if noRetry == "" {
		noRetry = "(none)"
	}

	return []string{
		"Base URL:            " + cfg.BaseURL,
		"Timeout:             " + cfg.Timeout.String(),
		"No-retry paths:      " + noRetry,
		"Rate limit:          " + rate,
		"Expiry buffer:       " + cfg.ExpiryBuffer.String(),
		fmt.Sprintf("Strict refresh exp:  %t", cfg.StrictRefreshExpiry),
		"Token storage:       " + string(cfg.Storage),
	}
}
