package store

import (
	"github.com/example/tablebook/internal/db"
)

// Store is the postgres-backed persistence layer. It satisfies the repository
// interfaces of the booking controller, the waitlist service, and the
// notification failure recorder.
type Store struct {
	db *db.DB
}

func New(d *db.DB) *Store {
	return &Store{db: d}
}
