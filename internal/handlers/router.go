package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xelth-com/freshroute/internal/buildinfo"
	"github.com/xelth-com/freshroute/internal/fleet"
	"github.com/xelth-com/freshroute/internal/middleware"
	"github.com/xelth-com/freshroute/internal/services/availability"
	"github.com/xelth-com/freshroute/internal/services/planner"
	"github.com/xelth-com/freshroute/internal/services/routecapacity"
	"github.com/xelth-com/freshroute/internal/utils"
	"github.com/xelth-com/freshroute/internal/websocket"
)

// Deps are the services exposed over HTTP
type Deps struct {
	Availability *availability.Engine
	Capacity     *routecapacity.Service
	Planning     *planner.Service
	Fleet        *fleet.Registry
	Hub          *websocket.Hub
	JWTSecret    string
	Location     *time.Location
}

// Router wraps the mux router and services
type Router struct {
	*mux.Router
	deps Deps
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(deps Deps) *Router {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	r := &Router{
		Router: mux.NewRouter(),
		deps:   deps,
	}
	r.Use(middleware.RequestID)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Availability routes (public, used by the storefront)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/availability/batch", r.batchAvailability).Methods("POST")
	api.HandleFunc("/availability/{code}", r.getAvailability).Methods("GET")
	api.HandleFunc("/availability/{code}/alternative", r.suggestAlternative).Methods("GET")
	api.HandleFunc("/availability/{code}/week", r.weeklySchedule).Methods("GET")

	// Capacity routes (checkout)
	api.HandleFunc("/capacity/snapshot", r.capacitySnapshot).Methods("GET")
	api.HandleFunc("/capacity/next-date", r.nextDeliveryDate).Methods("GET")
	api.HandleFunc("/capacity/check", r.capacityCheck).Methods("GET")

	// Planning and fleet routes (protected)
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth(deps.JWTSecret))
	admin.HandleFunc("/planning/dashboard", r.planningDashboard).Methods("GET")
	admin.HandleFunc("/fleet", r.getFleet).Methods("GET")
	admin.HandleFunc("/fleet", r.saveFleet).Methods("PUT")
	admin.HandleFunc("/fleet/reset", r.resetFleet).Methods("POST")

	// Order-change push channel
	if deps.Hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(deps.Hub, w, req)
		})
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	now := time.Now()
	body := map[string]interface{}{
		"status": "ok",
		"time":   now.In(r.deps.Location).Format(time.RFC3339),
		"build":  buildinfo.Current(now),
	}
	if r.deps.Hub != nil {
		body["sessions"] = r.deps.Hub.Count()
	}
	respondJSON(w, http.StatusOK, body)
}

// dateParam parses an optional date query parameter; missing means today
func (r *Router) dateParam(req *http.Request, name string) (time.Time, bool) {
	raw := strings.TrimSpace(req.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDate(raw, r.deps.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func floatParam(req *http.Request, name string) (float64, bool) {
	raw := strings.TrimSpace(req.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	f, err := utils.ParseQuantity(raw)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
