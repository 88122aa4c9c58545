package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adi-253/chathub/internal/services"
)

// RoomHandler contains HTTP handlers for rooms and presence.
type RoomHandler struct {
	rooms    *services.RoomDirectory
	sessions *services.SessionRegistry
}

// NewRoomHandler creates a new RoomHandler instance.
func NewRoomHandler(rooms *services.RoomDirectory, sessions *services.SessionRegistry) *RoomHandler {
	return &RoomHandler{rooms: rooms, sessions: sessions}
}

// ListRooms handles GET /api/rooms
// Returns every known room name.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rooms.ListRooms())
}

// ListParticipants handles GET /api/participants
// Returns the participants currently online.
func (h *RoomHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.ListOnline())
}

// writeJSON is a helper function to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
