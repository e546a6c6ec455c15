package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/internaltypes"
	"github.com/example/tablebook/internal/reserve"
	"github.com/example/tablebook/internal/token"
	"github.com/example/tablebook/internal/waitlist"
)

// Server exposes the reservation engine as a JSON API. Guests reference their
// bookings by manage token, never by raw ID.
type Server struct {
	Bookings *booking.Controller
	Waitlist *waitlist.Service
	Tokens   *token.Codec

	// Metrics serves the prometheus endpoint when set.
	Metrics http.Handler
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}

	mux.HandleFunc("GET /api/availability", s.handleAvailability)
	mux.HandleFunc("POST /api/bookings", s.handleBookingCreate)
	mux.HandleFunc("PATCH /api/bookings/{token}", s.handleBookingEdit)
	mux.HandleFunc("DELETE /api/bookings/{token}", s.handleBookingCancel)

	mux.HandleFunc("POST /api/waitlist", s.handleWaitlistJoin)
	mux.HandleFunc("GET /api/waitlist", s.handleWaitlistList)
	mux.HandleFunc("POST /api/waitlist/{id}/notify", s.waitlistTransition(s.Waitlist.Notify))
	mux.HandleFunc("POST /api/waitlist/{id}/seat", s.waitlistTransition(s.Waitlist.Seat))
	mux.HandleFunc("POST /api/waitlist/{id}/cancel", s.waitlistTransition(s.Waitlist.Cancel))

	return mux
}

type slotJSON struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(r.URL.Query().Get("restaurant"))
	if err != nil {
		badRequest(w, "invalid restaurant id")
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w, "invalid date (want YYYY-MM-DD)")
		return
	}
	partySize, err := strconv.Atoi(r.URL.Query().Get("party_size"))
	if err != nil {
		badRequest(w, "invalid party_size")
		return
	}

	slots, err := s.Bookings.Availability(r.Context(), restaurantID, date, partySize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]slotJSON, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotJSON{Time: slot.Start.Format(time.RFC3339), Available: slot.Available})
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": out})
}

type guestJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type createBookingRequest struct {
	RestaurantID    uuid.UUID `json:"restaurant_id"`
	Guest           guestJSON `json:"guest"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	PartySize       int       `json:"party_size"`
	SpecialRequests string    `json:"special_requests"`
}

type bookingJSON struct {
	RestaurantID    uuid.UUID `json:"restaurant_id"`
	TableID         uuid.UUID `json:"table_id"`
	Guest           guestJSON `json:"guest"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	PartySize       int       `json:"party_size"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	ManageToken     string    `json:"manage_token,omitempty"`
}

func (s *Server) bookingJSON(b reserve.Booking, withToken bool) (bookingJSON, error) {
	out := bookingJSON{
		RestaurantID:    b.RestaurantID,
		TableID:         b.TableID,
		Guest:           guestJSON{Name: b.Guest.Name, Email: b.Guest.Email, Phone: b.Guest.Phone},
		Start:           b.Start,
		DurationMinutes: b.DurationMinutes,
		PartySize:       b.PartySize,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
	}
	if withToken {
		tok, err := s.Tokens.Issue(b.ID)
		if err != nil {
			return bookingJSON{}, fmt.Errorf("issue manage token: %w", err)
		}
		out.ManageToken = tok
	}
	return out, nil
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	b, err := s.Bookings.Create(r.Context(), booking.CreateParams{
		RestaurantID:    req.RestaurantID,
		Guest:           reserve.Guest{Name: req.Guest.Name, Email: req.Guest.Email, Phone: req.Guest.Phone},
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.bookingJSON(b, true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type editBookingRequest struct {
	Start     time.Time `json:"start"`
	PartySize int       `json:"party_size"`
}

func (s *Server) handleBookingEdit(w http.ResponseWriter, r *http.Request) {
	id, err := s.Tokens.Decode(r.PathValue("token"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req editBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	b, err := s.Bookings.Edit(r.Context(), id, req.Start, req.PartySize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.bookingJSON(b, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	id, err := s.Tokens.Decode(r.PathValue("token"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.Bookings.Cancel(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type joinWaitlistRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id"`
	GuestName    string    `json:"guest_name"`
	GuestPhone   string    `json:"guest_phone"`
	GuestEmail   string    `json:"guest_email"`
	PartySize    int       `json:"party_size"`
}

type waitlistEntryJSON struct {
	ID         uuid.UUID  `json:"id"`
	GuestName  string     `json:"guest_name"`
	PartySize  int        `json:"party_size"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	SeatedAt   *time.Time `json:"seated_at,omitempty"`
}

func entryJSON(e waitlist.Entry) waitlistEntryJSON {
	return waitlistEntryJSON{
		ID:         e.ID,
		GuestName:  e.GuestName,
		PartySize:  e.PartySize,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		NotifiedAt: e.NotifiedAt,
		SeatedAt:   e.SeatedAt,
	}
}

func (s *Server) handleWaitlistJoin(w http.ResponseWriter, r *http.Request) {
	var req joinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	e, err := s.Waitlist.Join(r.Context(), waitlist.JoinParams{
		RestaurantID: req.RestaurantID,
		GuestName:    req.GuestName,
		GuestPhone:   req.GuestPhone,
		GuestEmail:   req.GuestEmail,
		PartySize:    req.PartySize,
	})
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entryJSON(e))
}

func (s *Server) handleWaitlistList(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(r.URL.Query().Get("restaurant"))
	if err != nil {
		badRequest(w, "invalid restaurant id")
		return
	}
	entries, err := s.Waitlist.List(r.Context(), restaurantID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]waitlistEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (s *Server) waitlistTransition(op func(context.Context, uuid.UUID) (waitlist.Entry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			badRequest(w, "invalid entry id")
			return
		}
		e, err := op(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entryJSON(e))
	}
}

type errorJSON struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps engine errors onto the API surface. Validation failures are
// the caller's to fix (422); availability misses are expected outcomes (409)
// and are not logged as failures.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reserve.ErrTooSoon):
		writeJSON(w, http.StatusUnprocessableEntity, errorJSON{Error: err.Error(), Code: "too_soon"})
	case errors.Is(err, reserve.ErrTooFarAhead):
		writeJSON(w, http.StatusUnprocessableEntity, errorJSON{Error: err.Error(), Code: "too_far_ahead"})
	case errors.Is(err, reserve.ErrClosed):
		writeJSON(w, http.StatusUnprocessableEntity, errorJSON{Error: err.Error(), Code: "closed"})
	case errors.Is(err, reserve.ErrInvalidPartySize):
		writeJSON(w, http.StatusUnprocessableEntity, errorJSON{Error: err.Error(), Code: "invalid_party_size"})
	case errors.Is(err, reserve.ErrNoSuitableTable):
		writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error(), Code: "no_suitable_table"})
	case errors.Is(err, reserve.ErrNoAvailability):
		writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error(), Code: "no_availability"})
	case errors.Is(err, internaltypes.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error(), Code: "invalid_transition"})
	case errors.Is(err, internaltypes.ErrAlreadyFinal):
		writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error(), Code: "already_final"})
	case errors.Is(err, internaltypes.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorJSON{Error: "not found", Code: "not_found"})
	default:
		log.Printf("web: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorJSON{Error: msg, Code: "bad_request"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("listening on %s", addr)
	return srv.ListenAndServe()
}
