package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/xelth-com/freshroute/internal/services/availability"
	"github.com/xelth-com/freshroute/internal/utils"
)

func (r *Router) getAvailability(w http.ResponseWriter, req *http.Request) {
	date, ok := r.dateParam(req, "date")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	b, err := r.deps.Availability.GetBreakdown(req.Context(), mux.Vars(req)["code"], date)
	if err != nil {
		respondAvailabilityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

type batchRequest struct {
	Codes []string `json:"codes"`
	Date  string   `json:"date"`
}

func (r *Router) batchAvailability(w http.ResponseWriter, req *http.Request) {
	var body batchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var date time.Time
	if body.Date != "" {
		var err error
		if date, err = utils.ParseDate(body.Date, r.deps.Location); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date")
			return
		}
	}
	batch, err := r.deps.Availability.GetBatchAvailability(req.Context(), body.Codes, date)
	if err != nil {
		respondAvailabilityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

func (r *Router) suggestAlternative(w http.ResponseWriter, req *http.Request) {
	qty, ok := floatParam(req, "qty")
	if !ok || qty <= 0 {
		respondError(w, http.StatusBadRequest, "qty must be a positive number")
		return
	}
	from, ok := r.dateParam(req, "from")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	s, err := r.deps.Availability.SuggestAlternativeDate(req.Context(), mux.Vars(req)["code"], qty, from)
	if err != nil {
		respondAvailabilityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (r *Router) weeklySchedule(w http.ResponseWriter, req *http.Request) {
	week, err := r.deps.Availability.GetWeeklySchedule(req.Context(), mux.Vars(req)["code"])
	if err != nil {
		respondAvailabilityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, week)
}

func respondAvailabilityError(w http.ResponseWriter, err error) {
	if errors.Is(err, availability.ErrEmptyProductCode) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "Failed to compute availability")
}
