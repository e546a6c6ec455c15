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
	"github.com/example/tablebook/internal/reserve"
)

func newBookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Create and manage bookings from the command line",
	}
	cmd.AddCommand(newBookingCreateCmd())
	cmd.AddCommand(newBookingListCmd())
	cmd.AddCommand(newBookingCancelCmd())
	return cmd
}

func newBookingCreateCmd() *cobra.Command {
	var (
		restaurantID string
		guestName    string
		guestEmail   string
		guestPhone   string
		start        string
		partySize    int
		duration     int
		notes        string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Book a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(restaurantID)
			if err != nil {
				return fmt.Errorf("invalid restaurant id: %w", err)
			}
			startAt, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid start (want RFC3339): %w", err)
			}

			ctx := context.Background()
			cfg, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			ctrl := booking.NewController(st, nil, metrics.New(prometheus.NewRegistry()), cfg.DefaultBookingMinutes, nil)
			b, err := ctrl.Create(ctx, booking.CreateParams{
				RestaurantID:    rid,
				Guest:           reserve.Guest{Name: guestName, Email: guestEmail, Phone: guestPhone},
				Start:           startAt,
				DurationMinutes: duration,
				PartySize:       partySize,
				SpecialRequests: notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "id=%s table=%s start=%s party=%d status=%s\n",
				b.ID, b.TableID, b.Start.Format(time.RFC3339), b.PartySize, b.Status)
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	c.Flags().StringVar(&guestName, "name", "", "guest name")
	c.Flags().StringVar(&guestEmail, "email", "", "guest email")
	c.Flags().StringVar(&guestPhone, "phone", "", "guest phone")
	c.Flags().StringVar(&start, "start", "", "start time (RFC3339)")
	c.Flags().IntVar(&partySize, "party-size", 2, "party size")
	c.Flags().IntVar(&duration, "duration", 0, "seating minutes (0 = restaurant default)")
	c.Flags().StringVar(&notes, "notes", "", "special requests")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("start")
	return c
}

func newBookingListCmd() *cobra.Command {
	var (
		restaurantID string
		date         string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List a restaurant's bookings for a day",
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
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			r, err := st.Restaurant(ctx, rid)
			if err != nil {
				return err
			}
			loc, err := r.Location()
			if err != nil {
				return err
			}
			year, month, dom := day.Date()
			dayStart := time.Date(year, month, dom, 0, 0, 0, 0, loc)

			bs, err := st.BookingsForDay(ctx, rid, dayStart, dayStart.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			for _, b := range bs {
				fmt.Fprintf(os.Stdout, "id=%s start=%s party=%d status=%s guest=%q table=%s\n",
					b.ID, b.Start.In(loc).Format("15:04"), b.PartySize, b.Status, b.Guest.Name, b.TableID)
			}
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	c.Flags().StringVar(&date, "date", "", "service day YYYY-MM-DD")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("date")
	return c
}

func newBookingCancelCmd() *cobra.Command {
	var bookingID string

	c := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a booking by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(bookingID)
			if err != nil {
				return fmt.Errorf("invalid booking id: %w", err)
			}

			ctx := context.Background()
			cfg, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			ctrl := booking.NewController(st, nil, metrics.New(prometheus.NewRegistry()), cfg.DefaultBookingMinutes, nil)
			b, err := ctrl.Cancel(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "id=%s status=%s\n", b.ID, b.Status)
			return nil
		},
	}
	c.Flags().StringVar(&bookingID, "id", "", "booking id")
	_ = c.MarkFlagRequired("id")
	return c
}
