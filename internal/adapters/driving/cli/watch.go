package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/logger"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session alive until interrupted",
	Long: `Runs in the foreground and refreshes the access token shortly before it
expires. The session status is printed every --interval and whenever the
configuration file changes, in which case the new settings are applied.

Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "status print interval")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchSession(ctx, cmd, watchInterval)
}

// watchSession prints the session status until ctx is done.
func watchSession(ctx context.Context, cmd *cobra.Command, interval time.Duration) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if !sessionService.IsAuthenticated(ctx) {
		return errors.New("not logged in: run 'admindesk login' first")
	}
	if interval <= 0 {
		interval = time.Minute
	}

	changed := make(chan struct{}, 1)
	if configWatcher != nil {
		go func() {
			err := configWatcher.Watch(ctx, 0, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.Warn("watch: configuration changes will not be applied: %v", err)
			}
		}()
	}

	cmd.Print(renderStatus(sessionService.Status(ctx), time.Now()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case <-changed:
			applyConfig(cmd)

		case <-ticker.C:
			cmd.Println()
			cmd.Print(renderStatus(sessionService.Status(ctx), time.Now()))
		}
	}
}

func applyConfig(cmd *cobra.Command) {
	if settingsService == nil || reconfigure == nil {
		return
	}
	cfg, err := settingsService.Get()
	if err != nil {
		logger.Error("watch: invalid configuration ignored: %v", err)
		return
	}
	reconfigure(cfg)
	cmd.Printf("Configuration reloaded (base URL %s)\n", cfg.BaseURL)
}
