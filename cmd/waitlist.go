package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/metrics"
	"github.com/example/tablebook/internal/waitlist"
)

func newWaitlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "Manage a restaurant's walk-in waitlist",
	}
	cmd.AddCommand(newWaitlistJoinCmd())
	cmd.AddCommand(newWaitlistListCmd())
	cmd.AddCommand(newWaitlistTransitionCmd("notify", "Mark an entry notified that a table is ready",
		func(s *waitlist.Service) func(context.Context, uuid.UUID) (waitlist.Entry, error) { return s.Notify }))
	cmd.AddCommand(newWaitlistTransitionCmd("seat", "Seat a waiting or notified party",
		func(s *waitlist.Service) func(context.Context, uuid.UUID) (waitlist.Entry, error) { return s.Seat }))
	cmd.AddCommand(newWaitlistTransitionCmd("cancel", "Remove a party from the waitlist",
		func(s *waitlist.Service) func(context.Context, uuid.UUID) (waitlist.Entry, error) { return s.Cancel }))
	return cmd
}

func waitlistService(st waitlist.Store) *waitlist.Service {
	return waitlist.NewService(st, nil, metrics.New(prometheus.NewRegistry()), nil)
}

func newWaitlistJoinCmd() *cobra.Command {
	var (
		restaurantID string
		guestName    string
		guestPhone   string
		guestEmail   string
		partySize    int
	)

	c := &cobra.Command{
		Use:   "join",
		Short: "Add a walk-in party to the waitlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(restaurantID)
			if err != nil {
				return fmt.Errorf("invalid restaurant id: %w", err)
			}

			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			e, err := waitlistService(st).Join(ctx, waitlist.JoinParams{
				RestaurantID: rid,
				GuestName:    guestName,
				GuestPhone:   guestPhone,
				GuestEmail:   guestEmail,
				PartySize:    partySize,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "id=%s status=%s\n", e.ID, e.Status)
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	c.Flags().StringVar(&guestName, "name", "", "guest name")
	c.Flags().StringVar(&guestPhone, "phone", "", "guest phone")
	c.Flags().StringVar(&guestEmail, "email", "", "guest email")
	c.Flags().IntVar(&partySize, "party-size", 2, "party size")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("name")
	return c
}

func newWaitlistListCmd() *cobra.Command {
	var restaurantID string

	c := &cobra.Command{
		Use:   "list",
		Short: "List waitlist entries in arrival order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(restaurantID)
			if err != nil {
				return fmt.Errorf("invalid restaurant id: %w", err)
			}

			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			entries, err := waitlistService(st).List(ctx, rid)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(os.Stdout, "id=%s guest=%q party=%d status=%s joined=%s\n",
					e.ID, e.GuestName, e.PartySize, e.Status, e.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	_ = c.MarkFlagRequired("restaurant")
	return c
}

func newWaitlistTransitionCmd(use, short string, op func(*waitlist.Service) func(context.Context, uuid.UUID) (waitlist.Entry, error)) *cobra.Command {
	var entryID string

	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(entryID)
			if err != nil {
				return fmt.Errorf("invalid entry id: %w", err)
			}

			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			e, err := op(waitlistService(st))(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "id=%s status=%s\n", e.ID, e.Status)
			return nil
		},
	}
	c.Flags().StringVar(&entryID, "id", "", "waitlist entry id")
	_ = c.MarkFlagRequired("id")
	return c
}
