package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/waitlist"
)

func (s *Store) InsertEntry(ctx context.Context, e waitlist.Entry) error {
	return s.db.Exec(ctx, `
INSERT INTO waitlist_entries(id, restaurant_id, guest_name, guest_phone, guest_email, party_size, status, created_at, notified_at, seated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.RestaurantID, e.GuestName, e.GuestPhone, e.GuestEmail, e.PartySize, string(e.Status), e.CreatedAt, e.NotifiedAt, e.SeatedAt)
}

func (s *Store) Entry(ctx context.Context, id uuid.UUID) (waitlist.Entry, error) {
	var e waitlist.Entry
	var status string
	err := s.db.QueryRow(ctx, `
SELECT id, restaurant_id, guest_name, guest_phone, guest_email, party_size, status, created_at, notified_at, seated_at
FROM waitlist_entries
WHERE id=$1`, id).
		Scan(&e.ID, &e.RestaurantID, &e.GuestName, &e.GuestPhone, &e.GuestEmail, &e.PartySize, &status, &e.CreatedAt, &e.NotifiedAt, &e.SeatedAt)
	if err != nil {
		return waitlist.Entry{}, db.WrapNotFound(err)
	}
	e.Status = waitlist.Status(status)
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e waitlist.Entry) error {
	return s.db.Exec(ctx, `
UPDATE waitlist_entries
SET status=$2, notified_at=$3, seated_at=$4
WHERE id=$1`,
		e.ID, string(e.Status), e.NotifiedAt, e.SeatedAt)
}

// ListByRestaurant returns entries FIFO by creation time.
func (s *Store) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]waitlist.Entry, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, restaurant_id, guest_name, guest_phone, guest_email, party_size, status, created_at, notified_at, seated_at
FROM waitlist_entries
WHERE restaurant_id=$1
ORDER BY created_at`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []waitlist.Entry
	for rows.Next() {
		var e waitlist.Entry
		var status string
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.GuestName, &e.GuestPhone, &e.GuestEmail, &e.PartySize, &status, &e.CreatedAt, &e.NotifiedAt, &e.SeatedAt); err != nil {
			return nil, err
		}
		e.Status = waitlist.Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
