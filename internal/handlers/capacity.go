package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xelth-com/freshroute/internal/services/routecapacity"
)

// snapshotRequest reads date, route, pendingKg and client. The date is required.
func (r *Router) snapshotRequest(w http.ResponseWriter, req *http.Request) (routecapacity.SnapshotRequest, bool) {
	q := req.URL.Query()
	if strings.TrimSpace(q.Get("date")) == "" {
		respondError(w, http.StatusBadRequest, "date is required")
		return routecapacity.SnapshotRequest{}, false
	}
	date, ok := r.dateParam(req, "date")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date")
		return routecapacity.SnapshotRequest{}, false
	}
	pending, ok := floatParam(req, "pendingKg")
	if !ok {
		respondError(w, http.StatusBadRequest, "pendingKg must be a non-negative number")
		return routecapacity.SnapshotRequest{}, false
	}
	return routecapacity.SnapshotRequest{
		DeliveryDate:      date,
		RouteName:         q.Get("route"),
		PendingWeightKg:   pending,
		PendingClientName: q.Get("client"),
	}, true
}

func (r *Router) capacitySnapshot(w http.ResponseWriter, req *http.Request) {
	sr, ok := r.snapshotRequest(w, req)
	if !ok {
		return
	}
	snap, err := r.deps.Capacity.GetCapacitySnapshot(req.Context(), sr)
	if err != nil {
		respondCapacityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (r *Router) capacityCheck(w http.ResponseWriter, req *http.Request) {
	sr, ok := r.snapshotRequest(w, req)
	if !ok {
		return
	}
	res, err := r.deps.Capacity.Check(req.Context(), sr)
	if err != nil {
		respondCapacityError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (r *Router) nextDeliveryDate(w http.ResponseWriter, req *http.Request) {
	from, ok := r.dateParam(req, "from")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	if from.IsZero() {
		from = r.deps.Capacity.Today()
	}
	respondJSON(w, http.StatusOK, r.deps.Capacity.SuggestNextValidDeliveryDate(req.Context(), req.URL.Query().Get("route"), from))
}

func respondCapacityError(w http.ResponseWriter, err error) {
	if errors.Is(err, routecapacity.ErrRouteNotFound) {
		respondError(w, http.StatusBadRequest, "route is required")
		return
	}
	respondError(w, http.StatusInternalServerError, "Failed to compute capacity")
}
