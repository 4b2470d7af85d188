package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/printeers/zakeke-sync/internal/config"
	"github.com/printeers/zakeke-sync/internal/store"
	"github.com/printeers/zakeke-sync/pkg/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one full sync pass and exit",
	Long: "Runs a single import submission, status refresh, and artifact fetch\n" +
		"cycle against the configured shop and Zakeke account, then exits.\n" +
		"Useful for cron-driven deployments and manual catch-up runs.",
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cliLog := log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	appLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	eng, err := buildEngine(cfg, st, appLog)
	if err != nil {
		return err
	}

	cliLog.Info("running sync pass")

	if err := eng.RunOnce(cmd.Context()); err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}

	cliLog.Info("sync pass complete")
	return nil
}
