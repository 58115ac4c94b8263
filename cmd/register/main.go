package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/pos-register/internal/bootstrap"
	"github.com/angelmondragon/pos-register/internal/cli"
	"github.com/angelmondragon/pos-register/pkg/config"
	"github.com/angelmondragon/pos-register/pkg/db"
	"github.com/angelmondragon/pos-register/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		catalog  string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Run a point-of-sale register in the terminal",
		Long: `Reads register commands from stdin, one per line:

  menu | add ID | focus LINE [quantity|price|none] | key KEYS... | enter
  qty LINE N | rm LINE | pay TENDER | ack | cancel | show | quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if catalog != "" {
				cfg.Catalog.Source = catalog
			}

			logg := logger.New(logger.Options{
				ServiceName: "register",
				Level:       logger.ParseLevel(logLevel),
				Output:      os.Stderr,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var dbClient *db.Client
			if cfg.DB.Enabled() {
				dbClient, err = db.New(ctx, cfg.DB, logg)
				if err != nil {
					return fmt.Errorf("connect database: %w", err)
				}
				defer dbClient.Close()
			}

			svc, err := bootstrap.Register(ctx, bootstrap.Params{Config: cfg, Logger: logg, DB: dbClient})
			if err != nil {
				return err
			}

			term, err := cli.NewTerminal(svc, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := term.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog source override (static|db)")
	return cmd
}
