package server

import (
	"net/http"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/recurrence"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/timeutil"
)

type dropRequest struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

type moveResponse struct {
	reposition.Outcome
	State      string `json:"state"`
	UndoWindow string `json:"undoWindow,omitempty"`
}

func (s *Server) outcome(o reposition.Outcome) moveResponse {
	resp := moveResponse{Outcome: o, State: s.moves.State().String()}
	if o.Moved {
		resp.UndoWindow = timeutil.FormatWindow(s.window)
	}
	return resp
}

// Drop starts and releases a drag of one booking onto a date. A busy day
// answers with the neighbors and waits for /moves/placement.
func (s *Server) Drop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.moves.Begin(req.ID); err != nil {
		respondErr(w, err)
		return
	}
	out, err := s.moves.Drop(r.Context(), req.Date)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.outcome(out))
}

type placementRequest struct {
	Placement string `json:"placement"`
}

// Place answers a pending drop with above or below.
func (s *Server) Place(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := reposition.ParsePlacement(req.Placement)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.moves.Choose(r.Context(), p)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.outcome(out))
}

// CancelMove abandons a pending drop.
func (s *Server) CancelMove(w http.ResponseWriter, r *http.Request) {
	s.moves.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{"state": s.moves.State().String()})
}

// Undo reverts the last move or copy while its window is open.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	undone, err := s.moves.Undo(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"undone": undone})
}

type recurRequest struct {
	Draft    booking.Draft `json:"draft"`
	Weekdays string        `json:"weekdays"`
	Interval int           `json:"interval"`
	Until    string        `json:"until"`
}

type batchResponse struct {
	IDs        []string `json:"ids"`
	Errors     []string `json:"errors,omitempty"`
	UndoWindow string   `json:"undoWindow"`
}

// Recur creates a weekly series.
func (s *Server) Recur(w http.ResponseWriter, r *http.Request) {
	var req recurRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	days, err := recurrence.ParseWeekdays(req.Weekdays)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rule := recurrence.Rule{Weekdays: days, Interval: req.Interval, Until: req.Until}
	drafts, err := recurrence.Expand(req.Draft, rule, s.store.Table())
	if err != nil {
		respondErr(w, err)
		return
	}
	s.batch(w, r, drafts)
}

type copyRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Copy duplicates every booking of one date onto another.
func (s *Server) Copy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validDate(w, req.From) || !validDate(w, req.To) {
		return
	}
	drafts, err := recurrence.CopyDay(s.store.Day(req.From), req.To)
	if err != nil {
		respondErr(w, err)
		return
	}
	s.batch(w, r, drafts)
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request, drafts []booking.Draft) {
	ids, err := s.store.CreateBatch(r.Context(), drafts)
	if len(ids) == 0 && err != nil {
		respondErr(w, err)
		return
	}
	if rerr := s.moves.RecordCopy(ids); rerr != nil {
		respondErr(w, rerr)
		return
	}
	resp := batchResponse{IDs: ids, UndoWindow: timeutil.FormatWindow(s.window)}
	if resp.IDs == nil {
		resp.IDs = []string{}
	}
	if err != nil {
		resp.Errors = splitErrors(err)
	}
	respondJSON(w, http.StatusCreated, resp)
}

func splitErrors(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
