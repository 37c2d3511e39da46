package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/donghyeon639/SYU-Spring-web/internal/config"
	"github.com/donghyeon639/SYU-Spring-web/internal/logging"
	"github.com/donghyeon639/SYU-Spring-web/internal/repository/gormstore"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "SYU meetup board",
	Long: `Runs the SYU meetup board: category boards where every post opens a
group that other students can ask to join.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger shared by every command.
func bootstrap() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Env), nil
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*gormstore.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return gormstore.Open(ctx, gormstore.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		SlowThreshold:   200 * time.Millisecond,
		Logger:          logger,
	})
}
