package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/reserve"
)

// CreateRestaurant inserts the restaurant and its seven opening-hours rows.
func (s *Store) CreateRestaurant(ctx context.Context, r reserve.Restaurant) error {
	if err := s.db.Exec(ctx, `
INSERT INTO restaurants(id, name, timezone, slot_duration_minutes, min_advance_hours, max_advance_days)
VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.Name, r.Timezone, r.SlotDurationMinutes, r.MinAdvanceHours, r.MaxAdvanceDays,
	); err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := r.Hours[wd]
		if err := s.db.Exec(ctx, `
INSERT INTO opening_hours(restaurant_id, weekday, opens_min, closes_min, closed)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (restaurant_id, weekday) DO UPDATE SET opens_min=$3, closes_min=$4, closed=$5`,
			r.ID, int(wd), day.Opens, day.Closes, day.Closed,
		); err != nil {
			return fmt.Errorf("insert opening hours: %w", err)
		}
	}
	return nil
}

// Restaurant loads a restaurant and its typed weekly schedule. Malformed
// stored hours degrade to the closed default schedule rather than empty
// availability with no explanation.
func (s *Store) Restaurant(ctx context.Context, id uuid.UUID) (reserve.Restaurant, error) {
	var r reserve.Restaurant
	err := s.db.QueryRow(ctx, `
SELECT id, name, timezone, slot_duration_minutes, min_advance_hours, max_advance_days
FROM restaurants
WHERE id=$1`, id).
		Scan(&r.ID, &r.Name, &r.Timezone, &r.SlotDurationMinutes, &r.MinAdvanceHours, &r.MaxAdvanceDays)
	if err != nil {
		return reserve.Restaurant{}, db.WrapNotFound(err)
	}

	hours, err := s.openingHours(ctx, id)
	if err != nil {
		log.Printf("store: opening hours for %s unusable, treating as closed: %v", id, err)
		hours = reserve.DefaultSchedule()
	}
	r.Hours = hours
	return r, nil
}

func (s *Store) openingHours(ctx context.Context, restaurantID uuid.UUID) (reserve.WeeklySchedule, error) {
	rows, err := s.db.Query(ctx, `
SELECT weekday, opens_min, closes_min, closed
FROM opening_hours
WHERE restaurant_id=$1`, restaurantID)
	if err != nil {
		return reserve.DefaultSchedule(), err
	}
	defer rows.Close()

	hours := reserve.DefaultSchedule()
	for rows.Next() {
		var weekday, opens, closes int
		var closed bool
		if err := rows.Scan(&weekday, &opens, &closes, &closed); err != nil {
			return reserve.DefaultSchedule(), err
		}
		if weekday < 0 || weekday > 6 {
			return reserve.DefaultSchedule(), fmt.Errorf("weekday %d out of range", weekday)
		}
		if !closed && (opens < 0 || closes > 24*60 || closes <= opens) {
			return reserve.DefaultSchedule(), fmt.Errorf("weekday %d window %d-%d invalid", weekday, opens, closes)
		}
		hours[weekday] = reserve.DayHours{Opens: opens, Closes: closes, Closed: closed}
	}
	return hours, rows.Err()
}

// Restaurants lists all restaurants without their schedules.
func (s *Store) Restaurants(ctx context.Context) ([]reserve.Restaurant, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, name, timezone, slot_duration_minutes, min_advance_hours, max_advance_days
FROM restaurants
ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reserve.Restaurant
	for rows.Next() {
		var r reserve.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Timezone, &r.SlotDurationMinutes, &r.MinAdvanceHours, &r.MaxAdvanceDays); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateTable adds a table to a restaurant.
func (s *Store) CreateTable(ctx context.Context, t reserve.Table) error {
	return s.db.Exec(ctx, `
INSERT INTO tables(id, restaurant_id, name, capacity, active, location)
VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.RestaurantID, t.Name, t.Capacity, t.Active, t.Location)
}

// Tables lists a restaurant's tables, active or not; the assignment engine
// filters on Active itself.
func (s *Store) Tables(ctx context.Context, restaurantID uuid.UUID) ([]reserve.Table, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, restaurant_id, name, capacity, active, location
FROM tables
WHERE restaurant_id=$1
ORDER BY capacity, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reserve.Table
	for rows.Next() {
		var t reserve.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.Active, &t.Location); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
