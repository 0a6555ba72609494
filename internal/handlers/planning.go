package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xelth-com/freshroute/internal/fleet"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
)

// planningDashboard builds the Day -> Route -> Vehicle view between from and to
func (r *Router) planningDashboard(w http.ResponseWriter, req *http.Request) {
	var bounds [2]string
	for i, name := range []string{"from", "to"} {
		t, ok := r.dateParam(req, name)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid "+name+" date")
			return
		}
		if !t.IsZero() {
			bounds[i] = utils.DateKey(t)
		}
	}
	respondJSON(w, http.StatusOK, r.deps.Planning.Dashboard(req.Context(), bounds[0], bounds[1]))
}

func (r *Router) getFleet(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.deps.Fleet.Vehicles())
}

func (r *Router) saveFleet(w http.ResponseWriter, req *http.Request) {
	var vehicles []models.Vehicle
	if err := json.NewDecoder(req.Body).Decode(&vehicles); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := r.deps.Fleet.Save(vehicles)
	if errors.Is(err, fleet.ErrEmptyFleet) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save fleet")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (r *Router) resetFleet(w http.ResponseWriter, req *http.Request) {
	vehicles, err := r.deps.Fleet.Reset()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to reset fleet")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}
