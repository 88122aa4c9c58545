package handlers

import (
	"net/http"
)

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Online  int    `json:"online"`
}

// OnlineCounter reports how many participants are online
type OnlineCounter interface {
	Count() int
}

// HealthCheck returns a GET /health handler for monitoring and load balancer checks.
func HealthCheck(online OnlineCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Message: "chathub is running",
			Online:  online.Count(),
		})
	}
}
