package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/store"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tablebook",
		Short: "Restaurant table reservations: availability, assignment, and waitlist",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newRestaurantCmd())
	root.AddCommand(newBookingCmd())
	root.AddCommand(newAvailabilityCmd())
	root.AddCommand(newWaitlistCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore dials the database for a one-shot CLI command. The caller owns
// closing the returned handle.
func openStore(ctx context.Context) (config.Config, *db.DB, *store.Store, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, d, store.New(d), nil
}
