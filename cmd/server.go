package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/metrics"
	"github.com/example/tablebook/internal/migrate"
	"github.com/example/tablebook/internal/notify"
	"github.com/example/tablebook/internal/store"
	"github.com/example/tablebook/internal/token"
	"github.com/example/tablebook/internal/waitlist"
	"github.com/example/tablebook/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the reservation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			st := store.New(d)

			var notifier notify.Notifier = notify.LogNotifier{}
			if cfg.NotifyWebhookURL != "" {
				notifier = notify.NewWebhook(cfg.NotifyWebhookURL)
			}
			notifySvc := notify.NewService(notifier, st)

			m := metrics.New(prometheus.DefaultRegisterer)

			ws := &web.Server{
				Bookings: booking.NewController(st, notifySvc, m, cfg.DefaultBookingMinutes, nil),
				Waitlist: waitlist.NewService(st, notifySvc, m, nil),
				Tokens:   token.NewCodec(cfg.TokenHashKey, cfg.TokenBlockKey),
				Metrics:  promhttp.Handler(),
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
