package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/tasks"
)

type monthSummary struct {
	month.Meta
	Count int `json:"count"`
}

// ListMonths returns the supported months with their booking counts.
func (s *Server) ListMonths(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	metas := s.store.Months()
	out := make([]monthSummary, 0, len(metas))
	for _, m := range metas {
		out = append(out, monthSummary{Meta: m, Count: len(snap[m.Key])})
	}
	respondJSON(w, http.StatusOK, out)
}

type monthResponse struct {
	Month    month.Meta        `json:"month"`
	Bookings []booking.Booking `json:"bookings"`
}

// GetMonth returns one bucket.
func (s *Server) GetMonth(w http.ResponseWriter, r *http.Request) {
	key, err := month.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	meta, ok := s.store.Table().Meta(key)
	if !ok {
		respondError(w, http.StatusNotFound, "month not supported")
		return
	}
	respondJSON(w, http.StatusOK, monthResponse{Month: meta, Bookings: nonNil(s.store.Month(key))})
}

// GetDay returns the bookings of one date ordered by start time.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(w, date) {
		return
	}
	respondJSON(w, http.StatusOK, nonNil(s.store.Day(date)))
}

// GetBooking returns a single booking.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.Find(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// CreateBooking creates a booking from a draft body.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var d booking.Draft
	if err := decode(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := s.store.Create(r.Context(), d)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// UpdateBooking replaces the editable fields of a booking.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var d booking.Draft
	if err := decode(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.Update(r.Context(), id, d); err != nil {
		respondErr(w, err)
		return
	}
	b, _ := s.store.Find(id)
	respondJSON(w, http.StatusOK, b)
}

// DeleteBooking deletes a booking.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type toggleRequest struct {
	Role string `json:"role"`
}

// ToggleCompletion flips the completed flag. The body may name the role.
func (s *Server) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req toggleRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = s.role
	}
	cur, ok := s.store.Find(id)
	if !ok {
		respondErr(w, tasks.ErrNotFound)
		return
	}
	if err := s.store.ToggleCompletion(r.Context(), id, cur.Completed, req.Role); err != nil {
		respondErr(w, err)
		return
	}
	b, _ := s.store.Find(id)
	respondJSON(w, http.StatusOK, b)
}

// TogglePayment flips the paid flag.
func (s *Server) TogglePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cur, ok := s.store.Find(id)
	if !ok {
		respondErr(w, tasks.ErrNotFound)
		return
	}
	if err := s.store.TogglePayment(r.Context(), id, cur.Paid); err != nil {
		respondErr(w, err)
		return
	}
	b, _ := s.store.Find(id)
	respondJSON(w, http.StatusOK, b)
}

type conflictRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	ExcludeID string `json:"excludeId"`
}

type conflictResponse struct {
	Conflicts []conflict.Conflict `json:"conflicts"`
	Overlap   bool                `json:"overlap"`
}

// Conflicts checks a candidate window against the bookings of its day.
func (s *Server) Conflicts(w http.ResponseWriter, r *http.Request) {
	var req conflictRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validDate(w, req.Date) {
		return
	}
	c := conflict.Candidate{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime, ExcludeID: req.ExcludeID}
	found, err := conflict.Detect(c, s.store.Day(req.Date), s.minGap)
	if err != nil {
		respondErr(w, err)
		return
	}
	if found == nil {
		found = []conflict.Conflict{}
	}
	respondJSON(w, http.StatusOK, conflictResponse{Conflicts: found, Overlap: conflict.HasOverlap(found)})
}

func nonNil(list []booking.Booking) []booking.Booking {
	if list == nil {
		return []booking.Booking{}
	}
	return list
}
