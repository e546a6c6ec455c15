package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/metrics"
)

func newAvailabilityCmd() *cobra.Command {
	var (
		restaurantID string
		date         string
		partySize    int
	)

	c := &cobra.Command{
		Use:   "availability",
		Short: "Show bookable slots for a day and party size",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(restaurantID)
			if err != nil {
				return fmt.Errorf("invalid restaurant id: %w", err)
			}
			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
			}

			ctx := context.Background()
			cfg, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			ctrl := booking.NewController(st, nil, metrics.New(prometheus.NewRegistry()), cfg.DefaultBookingMinutes, nil)
			slots, err := ctrl.Availability(ctx, rid, day, partySize)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintln(os.Stdout, "no bookable slots")
				return nil
			}
			r, err := st.Restaurant(ctx, rid)
			if err != nil {
				return err
			}
			loc, err := r.Location()
			if err != nil {
				return err
			}
			for _, s := range slots {
				state := "available"
				if !s.Available {
					state = "full"
				}
				fmt.Fprintf(os.Stdout, "%s %s\n", s.Start.In(loc).Format("15:04"), state)
			}
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	c.Flags().StringVar(&date, "date", "", "service day YYYY-MM-DD")
	c.Flags().IntVar(&partySize, "party-size", 2, "party size")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("date")
	return c
}
