// Package server exposes a long-lived task store over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/recurrence"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/tasks"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	store  *tasks.Store
	moves  *reposition.Protocol
	minGap time.Duration
	role   string
	window time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMinGap sets the spacing used by the conflict endpoint.
func WithMinGap(d time.Duration) Option {
	return func(s *Server) { s.minGap = d }
}

// WithRole sets the role recorded when a request does not name one.
func WithRole(role string) Option {
	return func(s *Server) { s.role = role }
}

// WithUndoWindow is reported back to clients after a move or copy.
func WithUndoWindow(d time.Duration) Option {
	return func(s *Server) { s.window = d }
}

// New creates a Server around an already loaded store.
func New(st *tasks.Store, moves *reposition.Protocol, opts ...Option) *Server {
	s := &Server{
		store:  st,
		moves:  moves,
		minGap: conflict.DefaultMinGap,
		window: reposition.DefaultUndoWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/months", s.ListMonths)
		r.Get("/months/{key}", s.GetMonth)
		r.Get("/days/{date}", s.GetDay)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/bookings/{id}", s.GetBooking)
		r.Put("/bookings/{id}", s.UpdateBooking)
		r.Delete("/bookings/{id}", s.DeleteBooking)
		r.Post("/bookings/{id}/complete", s.ToggleCompletion)
		r.Post("/bookings/{id}/paid", s.TogglePayment)

		r.Post("/conflicts", s.Conflicts)

		r.Post("/moves", s.Drop)
		r.Post("/moves/placement", s.Place)
		r.Post("/moves/cancel", s.CancelMove)
		r.Post("/undo", s.Undo)

		r.Post("/recurrences", s.Recur)
		r.Post("/copies", s.Copy)
	})
	return r
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// respondError sends {"error": message}.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// respondErr maps domain errors onto status codes.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tasks.ErrInvalidDateRange),
		errors.Is(err, tasks.ErrInvalidTimeWindow),
		errors.Is(err, tasks.ErrInvalidBooking),
		errors.Is(err, recurrence.ErrEmptyRange),
		errors.Is(err, recurrence.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tasks.ErrNotFound), errors.Is(err, reposition.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, reposition.ErrState):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reposition.ErrNoRoom), errors.Is(err, reposition.ErrEmptyDay):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tasks.ErrPersistenceFailure):
		log.Printf("persistence failure: %v", err)
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("internal server error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func validDate(w http.ResponseWriter, date string) bool {
	if _, err := timeutil.ParseDate(date); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
