package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/internaltypes"
	"github.com/example/tablebook/internal/metrics"
	"github.com/example/tablebook/internal/notify"
	"github.com/example/tablebook/internal/reserve"
)

// Store is the persistence surface the lifecycle controller needs. InsertBooking
// and MoveBooking must fail with internaltypes.ErrReservationConflict when a
// committed booking already occupies the same (table, interval); the postgres
// implementation backs that with a GiST exclusion constraint, so the check
// holds even across processes.
type Store interface {
	Restaurant(ctx context.Context, id uuid.UUID) (reserve.Restaurant, error)
	Tables(ctx context.Context, restaurantID uuid.UUID) ([]reserve.Table, error)
	ActiveBookingsByTable(ctx context.Context, restaurantID uuid.UUID, window reserve.Interval) (map[uuid.UUID][]reserve.Booking, error)

	InsertBooking(ctx context.Context, b reserve.Booking) error
	MoveBooking(ctx context.Context, b reserve.Booking) error
	Booking(ctx context.Context, id uuid.UUID) (reserve.Booking, error)
	SetBookingStatus(ctx context.Context, id uuid.UUID, status reserve.BookingStatus, updatedAt time.Time) error
}

// Controller owns booking create/edit/cancel and status transitions. The
// read-conflicts/assign/commit sequence runs under a per-restaurant lock so
// concurrent creates in this process cannot observe the same table as free;
// the store's conflict error covers racing processes, and losing that race is
// retried once against fresh data.
type Controller struct {
	store           Store
	notify          *notify.Service
	metrics         *metrics.Metrics
	defaultDuration int
	now             func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewController wires the lifecycle controller. A zero defaultDuration falls
// back to the 120-minute policy default; a nil now uses the wall clock.
func NewController(store Store, n *notify.Service, m *metrics.Metrics, defaultDuration int, now func() time.Time) *Controller {
	if defaultDuration <= 0 {
		defaultDuration = 120
	}
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:           store,
		notify:          n,
		metrics:         m,
		defaultDuration: defaultDuration,
		now:             now,
		locks:           make(map[uuid.UUID]*sync.Mutex),
	}
}

func (c *Controller) lockRestaurant(id uuid.UUID) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// CreateParams carries a guest's booking request.
type CreateParams struct {
	RestaurantID    uuid.UUID
	Guest           reserve.Guest
	Start           time.Time
	DurationMinutes int // 0 applies the restaurant's default policy
	PartySize       int
	SpecialRequests string
}

// Create validates the request, assigns a table, and commits the booking as
// one atomic step. On success the booking is CONFIRMED and the guest
// notification is dispatched fire-and-forget. On failure nothing is written.
func (c *Controller) Create(ctx context.Context, p CreateParams) (reserve.Booking, error) {
	if p.PartySize < 1 {
		return reserve.Booking{}, reserve.ErrInvalidPartySize
	}
	r, err := c.store.Restaurant(ctx, p.RestaurantID)
	if err != nil {
		return reserve.Booking{}, err
	}

	duration := p.DurationMinutes
	if duration <= 0 {
		duration = c.defaultDuration
	}
	now := c.now()
	if err := reserve.WithinAdvanceWindow(r, p.Start, now); err != nil {
		return reserve.Booking{}, err
	}
	if !reserve.WithinOpeningHours(r, p.Start, duration) {
		return reserve.Booking{}, reserve.ErrClosed
	}

	unlock := c.lockRestaurant(r.ID)
	defer unlock()

	candidate := reserve.NewInterval(p.Start, duration)
	for attempt := 0; ; attempt++ {
		table, err := c.assign(ctx, r.ID, candidate, p.PartySize, uuid.Nil)
		if err != nil {
			return reserve.Booking{}, err
		}

		// Honor cancellation up to here; once the commit begins a client
		// disconnect must not leave a partial reservation either way.
		if err := ctx.Err(); err != nil {
			return reserve.Booking{}, err
		}
		b := reserve.Booking{
			ID:              uuid.New(),
			RestaurantID:    r.ID,
			TableID:         table.ID,
			Guest:           p.Guest,
			Start:           p.Start,
			DurationMinutes: duration,
			PartySize:       p.PartySize,
			Status:          reserve.StatusConfirmed,
			SpecialRequests: p.SpecialRequests,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		err = c.store.InsertBooking(context.WithoutCancel(ctx), b)
		if err == nil {
			c.metrics.BookingsCreated.Inc()
			c.notify.Dispatch(ctx, bookingEvent(notify.KindBookingConfirmed, b))
			return b, nil
		}
		if !errors.Is(err, internaltypes.ErrReservationConflict) {
			return reserve.Booking{}, fmt.Errorf("commit booking: %w", err)
		}
		// Another process won the interval between our snapshot and commit.
		// Re-read and try the assignment once more, then give up.
		if attempt >= 1 {
			c.countRejection(reserve.ErrNoAvailability)
			return reserve.Booking{}, reserve.ErrNoAvailability
		}
		c.metrics.ReservationRetries.Inc()
	}
}

// Edit moves a booking to a new start and party size. The new interval passes
// the same validators as Create and is routed through the assignment engine
// with the edited booking excluded from the snapshot, so the old interval is
// released and the new one acquired in a single committed update.
func (c *Controller) Edit(ctx context.Context, id uuid.UUID, newStart time.Time, newPartySize int) (reserve.Booking, error) {
	if newPartySize < 1 {
		return reserve.Booking{}, reserve.ErrInvalidPartySize
	}
	b, err := c.store.Booking(ctx, id)
	if err != nil {
		return reserve.Booking{}, err
	}
	if !b.Status.Active() {
		return reserve.Booking{}, internaltypes.ErrNotFound
	}
	r, err := c.store.Restaurant(ctx, b.RestaurantID)
	if err != nil {
		return reserve.Booking{}, err
	}

	now := c.now()
	if err := reserve.WithinAdvanceWindow(r, newStart, now); err != nil {
		return reserve.Booking{}, err
	}
	if !reserve.WithinOpeningHours(r, newStart, b.DurationMinutes) {
		return reserve.Booking{}, reserve.ErrClosed
	}

	unlock := c.lockRestaurant(r.ID)
	defer unlock()

	candidate := reserve.NewInterval(newStart, b.DurationMinutes)
	for attempt := 0; ; attempt++ {
		table, err := c.assign(ctx, r.ID, candidate, newPartySize, b.ID)
		if err != nil {
			return reserve.Booking{}, err
		}

		if err := ctx.Err(); err != nil {
			return reserve.Booking{}, err
		}
		updated := b
		updated.TableID = table.ID
		updated.Start = newStart
		updated.PartySize = newPartySize
		updated.UpdatedAt = now

		err = c.store.MoveBooking(context.WithoutCancel(ctx), updated)
		if err == nil {
			c.metrics.BookingsEdited.Inc()
			c.notify.Dispatch(ctx, bookingEvent(notify.KindBookingUpdated, updated))
			return updated, nil
		}
		if !errors.Is(err, internaltypes.ErrReservationConflict) {
			return reserve.Booking{}, fmt.Errorf("commit edit: %w", err)
		}
		if attempt >= 1 {
			c.countRejection(reserve.ErrNoAvailability)
			return reserve.Booking{}, reserve.ErrNoAvailability
		}
		c.metrics.ReservationRetries.Inc()
	}
}

// assign snapshots tables and active bookings and runs the pure engine.
// exclude drops one booking from the snapshot (the one being edited).
func (c *Controller) assign(ctx context.Context, restaurantID uuid.UUID, candidate reserve.Interval, partySize int, exclude uuid.UUID) (reserve.Table, error) {
	tables, err := c.store.Tables(ctx, restaurantID)
	if err != nil {
		return reserve.Table{}, err
	}
	byTable, err := c.store.ActiveBookingsByTable(ctx, restaurantID, candidate)
	if err != nil {
		return reserve.Table{}, err
	}
	if exclude != uuid.Nil {
		for tableID, bookings := range byTable {
			kept := make([]reserve.Booking, 0, len(bookings))
			for _, existing := range bookings {
				if existing.ID != exclude {
					kept = append(kept, existing)
				}
			}
			byTable[tableID] = kept
		}
	}
	table, err := reserve.AssignTable(tables, byTable, candidate, partySize)
	if err != nil {
		c.countRejection(err)
		return reserve.Table{}, err
	}
	return table, nil
}

// Cancel releases the booking's table occupancy immediately.
func (c *Controller) Cancel(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	b, err := c.store.Booking(ctx, id)
	if err != nil {
		return reserve.Booking{}, err
	}
	if !b.Status.Active() {
		return reserve.Booking{}, internaltypes.ErrAlreadyFinal
	}
	now := c.now()
	if err := c.store.SetBookingStatus(context.WithoutCancel(ctx), b.ID, reserve.StatusCancelled, now); err != nil {
		return reserve.Booking{}, err
	}
	b.Status = reserve.StatusCancelled
	b.UpdatedAt = now
	c.metrics.BookingsCancelled.Inc()
	c.notify.Dispatch(ctx, bookingEvent(notify.KindBookingCancelled, b))
	return b, nil
}

// transitions holds the administrative status moves. None of them touches the
// occupancy interval, so no conflict re-check is involved.
var transitions = map[reserve.BookingStatus][]reserve.BookingStatus{
	reserve.StatusPending:   {reserve.StatusConfirmed, reserve.StatusSeated, reserve.StatusCancelled, reserve.StatusNoShow},
	reserve.StatusConfirmed: {reserve.StatusSeated, reserve.StatusCancelled, reserve.StatusNoShow},
	reserve.StatusSeated:    {reserve.StatusCompleted},
}

func canTransition(from, to reserve.BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition applies one administrative status change.
func (c *Controller) Transition(ctx context.Context, id uuid.UUID, to reserve.BookingStatus) (reserve.Booking, error) {
	if !to.Valid() {
		return reserve.Booking{}, fmt.Errorf("%w: unknown status %q", internaltypes.ErrInvalidTransition, to)
	}
	b, err := c.store.Booking(ctx, id)
	if err != nil {
		return reserve.Booking{}, err
	}
	if !canTransition(b.Status, to) {
		return reserve.Booking{}, fmt.Errorf("%w: %s -> %s", internaltypes.ErrInvalidTransition, b.Status, to)
	}
	now := c.now()
	if err := c.store.SetBookingStatus(ctx, b.ID, to, now); err != nil {
		return reserve.Booking{}, err
	}
	b.Status = to
	b.UpdatedAt = now
	return b, nil
}

// Confirm marks a pending booking confirmed.
func (c *Controller) Confirm(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	return c.Transition(ctx, id, reserve.StatusConfirmed)
}

// Seat marks the party as arrived.
func (c *Controller) Seat(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	return c.Transition(ctx, id, reserve.StatusSeated)
}

// Complete closes out a seated booking.
func (c *Controller) Complete(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	return c.Transition(ctx, id, reserve.StatusCompleted)
}

// NoShow records that the party never arrived.
func (c *Controller) NoShow(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	return c.Transition(ctx, id, reserve.StatusNoShow)
}

// Availability lists the day's offered slots for a party size. Read-only and
// computed from a snapshot: a slot shown available can still be lost to a
// concurrent create, which is why Create re-validates.
func (c *Controller) Availability(ctx context.Context, restaurantID uuid.UUID, date time.Time, partySize int) ([]reserve.Slot, error) {
	timer := time.Now()
	defer func() {
		c.metrics.AvailabilityRequests.Inc()
		c.metrics.AvailabilityDuration.Observe(time.Since(timer).Seconds())
	}()

	r, err := c.store.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	tables, err := c.store.Tables(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	loc, err := r.Location()
	if err != nil {
		return nil, fmt.Errorf("restaurant timezone: %w", err)
	}
	year, month, day := date.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)
	// Widened by a day on each side so bookings spilling over the date's
	// edges still show up in the snapshot.
	window := reserve.Interval{Start: midnight.Add(-24 * time.Hour), End: midnight.Add(48 * time.Hour)}
	byTable, err := c.store.ActiveBookingsByTable(ctx, restaurantID, window)
	if err != nil {
		return nil, err
	}
	return reserve.AvailableSlots(r, tables, byTable, date, c.defaultDuration, partySize, c.now())
}

// Get returns a booking by id.
func (c *Controller) Get(ctx context.Context, id uuid.UUID) (reserve.Booking, error) {
	return c.store.Booking(ctx, id)
}

func (c *Controller) countRejection(err error) {
	switch {
	case errors.Is(err, reserve.ErrNoSuitableTable):
		c.metrics.AvailabilityErrors.WithLabelValues("no_suitable_table").Inc()
	case errors.Is(err, reserve.ErrNoAvailability):
		c.metrics.AvailabilityErrors.WithLabelValues("no_availability").Inc()
	}
}

func bookingEvent(kind notify.EventKind, b reserve.Booking) notify.Event {
	return notify.Event{
		Kind:         kind,
		RestaurantID: b.RestaurantID,
		ReferenceID:  b.ID,
		GuestName:    b.Guest.Name,
		GuestEmail:   b.Guest.Email,
		GuestPhone:   b.Guest.Phone,
		Start:        b.Start,
		PartySize:    b.PartySize,
	}
}
