package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/reserve"
	"github.com/example/tablebook/internal/seed"
)

func newRestaurantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Provision and inspect restaurants",
	}
	cmd.AddCommand(newRestaurantImportCmd())
	cmd.AddCommand(newRestaurantListCmd())
	cmd.AddCommand(newRestaurantAddTableCmd())
	return cmd
}

func newRestaurantImportCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "import",
		Short: "Create restaurants and tables from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := seed.Load(file)
			if err != nil {
				return err
			}

			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			for _, s := range seeds {
				if err := st.CreateRestaurant(ctx, s.Restaurant); err != nil {
					return fmt.Errorf("restaurant %q: %w", s.Restaurant.Name, err)
				}
				for _, table := range s.Tables {
					if err := st.CreateTable(ctx, table); err != nil {
						return fmt.Errorf("restaurant %q table %q: %w", s.Restaurant.Name, table.Name, err)
					}
				}
				fmt.Fprintf(os.Stdout, "id=%s name=%q tables=%d\n", s.Restaurant.ID, s.Restaurant.Name, len(s.Tables))
			}
			return nil
		},
	}
	c.Flags().StringVar(&file, "file", "", "path to the YAML seed file")
	_ = c.MarkFlagRequired("file")
	return c
}

func newRestaurantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			rs, err := st.Restaurants(ctx)
			if err != nil {
				return err
			}
			for _, r := range rs {
				fmt.Fprintf(os.Stdout, "id=%s name=%q tz=%s slot=%dm advance=%dh..%dd\n",
					r.ID, r.Name, r.Timezone, r.SlotDurationMinutes, r.MinAdvanceHours, r.MaxAdvanceDays)
			}
			return nil
		},
	}
}

func newRestaurantAddTableCmd() *cobra.Command {
	var (
		restaurantID string
		name         string
		capacity     int
		location     string
	)

	c := &cobra.Command{
		Use:   "add-table",
		Short: "Add a table to a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(restaurantID)
			if err != nil {
				return fmt.Errorf("invalid restaurant id: %w", err)
			}
			if capacity < 1 {
				return fmt.Errorf("capacity must be positive")
			}

			ctx := context.Background()
			_, d, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if _, err := st.Restaurant(ctx, rid); err != nil {
				return err
			}
			table := reserve.Table{
				ID:           uuid.New(),
				RestaurantID: rid,
				Name:         name,
				Capacity:     capacity,
				Active:       true,
				Location:     location,
			}
			if err := st.CreateTable(ctx, table); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "id=%s name=%q capacity=%d\n", table.ID, table.Name, table.Capacity)
			return nil
		},
	}
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id")
	c.Flags().StringVar(&name, "name", "", "table name")
	c.Flags().IntVar(&capacity, "capacity", 0, "seats at the table")
	c.Flags().StringVar(&location, "location", "", "optional location tag (window, patio, ...)")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("capacity")
	return c
}
