package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies which lifecycle decision triggered a notification.
type EventKind string

const (
	KindBookingConfirmed EventKind = "booking_confirmed"
	KindBookingUpdated   EventKind = "booking_updated"
	KindBookingCancelled EventKind = "booking_cancelled"
	KindWaitlistReady    EventKind = "waitlist_ready"
)

// Event is the payload handed to the external email/SMS sender.
type Event struct {
	Kind         EventKind `json:"kind"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	ReferenceID  uuid.UUID `json:"reference_id"` // booking or waitlist entry id
	GuestName    string    `json:"guest_name"`
	GuestEmail   string    `json:"guest_email,omitempty"`
	GuestPhone   string    `json:"guest_phone,omitempty"`
	Start        time.Time `json:"start,omitempty"`
	PartySize    int       `json:"party_size"`
}

// Notifier delivers a single notification event.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
}

// FailureStore records notifications that could not be delivered so an
// external process can retry them later. Delivery is never retried here.
type FailureStore interface {
	RecordNotificationFailure(ctx context.Context, ev Event, sendErr error) error
}

// Service dispatches events fire-and-forget: a failed send is logged and
// recorded, never surfaced to the booking operation that triggered it.
type Service struct {
	Notifier Notifier
	Failures FailureStore
	Timeout  time.Duration
}

func NewService(n Notifier, failures FailureStore) *Service {
	return &Service{Notifier: n, Failures: failures, Timeout: 10 * time.Second}
}

// Dispatch sends ev on a background goroutine. The caller's context is
// detached first so a client disconnect cannot abort a notification for an
// already-committed booking.
func (s *Service) Dispatch(ctx context.Context, ev Event) {
	if s == nil || s.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.Notifier.Send(sendCtx, ev); err != nil {
			log.Printf("notify: %s for %s failed: %v", ev.Kind, ev.ReferenceID, err)
			if s.Failures != nil {
				if rerr := s.Failures.RecordNotificationFailure(sendCtx, ev, err); rerr != nil {
					log.Printf("notify: recording failure: %v", rerr)
				}
			}
		}
	}()
}

// LogNotifier is the no-webhook fallback: it prints the notification instead
// of sending it.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, ev Event) error {
	log.Printf("notify: %s guest=%q party=%d start=%s", ev.Kind, ev.GuestName, ev.PartySize, ev.Start.Format(time.RFC3339))
	return nil
}
