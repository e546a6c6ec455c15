package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/internaltypes"
	"github.com/example/tablebook/internal/metrics"
	"github.com/example/tablebook/internal/notify"
)

// Status is a waitlist entry's state. Waiting is initial; seated and
// cancelled are terminal.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusNotified  Status = "notified"
	StatusSeated    Status = "seated"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusSeated || s == StatusCancelled
}

// Entry is a queued party. Entries never consume a table; they are a pure
// queue with notification side effects, FIFO by CreatedAt for presentation.
type Entry struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	GuestName    string
	GuestPhone   string
	GuestEmail   string
	PartySize    int
	Status       Status
	CreatedAt    time.Time
	NotifiedAt   *time.Time
	SeatedAt     *time.Time
}

// Store is the persistence surface for waitlist entries.
type Store interface {
	InsertEntry(ctx context.Context, e Entry) error
	Entry(ctx context.Context, id uuid.UUID) (Entry, error)
	UpdateEntry(ctx context.Context, e Entry) error
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]Entry, error)
}

// Service advances waitlist entries through the state machine.
type Service struct {
	store   Store
	notify  *notify.Service
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(store Store, n *notify.Service, m *metrics.Metrics, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, notify: n, metrics: m, now: now}
}

// JoinParams describes a party joining the waitlist.
type JoinParams struct {
	RestaurantID uuid.UUID
	GuestName    string
	GuestPhone   string
	GuestEmail   string
	PartySize    int
}

// Join creates a new WAITING entry. Joining happens when no bookable slot
// exists; that decision belongs to the caller, not this queue.
func (s *Service) Join(ctx context.Context, p JoinParams) (Entry, error) {
	if p.PartySize < 1 {
		return Entry{}, fmt.Errorf("party size must be positive")
	}
	if p.GuestName == "" {
		return Entry{}, fmt.Errorf("guest name required")
	}
	e := Entry{
		ID:           uuid.New(),
		RestaurantID: p.RestaurantID,
		GuestName:    p.GuestName,
		GuestPhone:   p.GuestPhone,
		GuestEmail:   p.GuestEmail,
		PartySize:    p.PartySize,
		Status:       StatusWaiting,
		CreatedAt:    s.now(),
	}
	if err := s.store.InsertEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Notify moves WAITING -> NOTIFIED and tells the guest their table is ready.
func (s *Service) Notify(ctx context.Context, id uuid.UUID) (Entry, error) {
	e, err := s.store.Entry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if e.Status != StatusWaiting {
		return Entry{}, fmt.Errorf("%w: %s -> %s", internaltypes.ErrInvalidTransition, e.Status, StatusNotified)
	}
	now := s.now()
	e.Status = StatusNotified
	e.NotifiedAt = &now
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	s.count(StatusNotified)
	s.notify.Dispatch(ctx, notify.Event{
		Kind:         notify.KindWaitlistReady,
		RestaurantID: e.RestaurantID,
		ReferenceID:  e.ID,
		GuestName:    e.GuestName,
		GuestEmail:   e.GuestEmail,
		GuestPhone:   e.GuestPhone,
		PartySize:    e.PartySize,
	})
	return e, nil
}

// Seat moves an entry to SEATED. Seating straight from WAITING is allowed;
// walk-in hosts skip the notification when the party is standing at the desk.
func (s *Service) Seat(ctx context.Context, id uuid.UUID) (Entry, error) {
	e, err := s.store.Entry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if e.Status.Terminal() {
		return Entry{}, fmt.Errorf("%w: %s -> %s", internaltypes.ErrInvalidTransition, e.Status, StatusSeated)
	}
	now := s.now()
	e.Status = StatusSeated
	e.SeatedAt = &now
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	s.count(StatusSeated)
	return e, nil
}

// Cancel moves any non-terminal entry to CANCELLED.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Entry, error) {
	e, err := s.store.Entry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if e.Status.Terminal() {
		return Entry{}, fmt.Errorf("%w: %s -> %s", internaltypes.ErrInvalidTransition, e.Status, StatusCancelled)
	}
	e.Status = StatusCancelled
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	s.count(StatusCancelled)
	return e, nil
}

// List returns a restaurant's entries FIFO by CreatedAt.
func (s *Service) List(ctx context.Context, restaurantID uuid.UUID) ([]Entry, error) {
	return s.store.ListByRestaurant(ctx, restaurantID)
}

func (s *Service) count(to Status) {
	if s.metrics != nil {
		s.metrics.WaitlistTransitions.WithLabelValues(string(to)).Inc()
	}
}
