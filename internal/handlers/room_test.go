package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/adi-253/chathub/internal/models"
	"github.com/adi-253/chathub/internal/services"
	"github.com/stretchr/testify/require"
)

func TestRoomHandler_ListRooms(t *testing.T) {
	req := require.New(t)
	rooms := services.NewRoomDirectory("general")
	rooms.Join("s1", "random")
	h := NewRoomHandler(rooms, services.NewSessionRegistry())

	rec := get(t, h.ListRooms, "/api/rooms")

	req.Equal(http.StatusOK, rec.Code)
	var names []string
	req.NoError(json.NewDecoder(rec.Body).Decode(&names))
	req.Equal([]string{"general", "random"}, names)
}

func TestRoomHandler_ListParticipants(t *testing.T) {
	req := require.New(t)
	sessions := services.NewSessionRegistry()
	alice, _, err := sessions.Authenticate("conn-a", "alice", "general", time.Now())
	req.NoError(err)
	h := NewRoomHandler(services.NewRoomDirectory("general"), sessions)

	rec := get(t, h.ListParticipants, "/api/participants")

	req.Equal(http.StatusOK, rec.Code)
	var online []models.ParticipantSummary
	req.NoError(json.NewDecoder(rec.Body).Decode(&online))
	req.Len(online, 1)
	req.Equal(alice.ID, online[0].ID)
	req.Equal("general", online[0].CurrentRoom)

	// Connection ids stay server side
	req.NotContains(rec.Body.String(), "conn-a")
}

func TestHealthCheck(t *testing.T) {
	req := require.New(t)
	sessions := services.NewSessionRegistry()
	_, _, err := sessions.Authenticate("conn-a", "alice", "general", time.Now())
	req.NoError(err)

	rec := get(t, HealthCheck(sessions), "/health")

	req.Equal(http.StatusOK, rec.Code)
	var body HealthResponse
	req.NoError(json.NewDecoder(rec.Body).Decode(&body))
	req.Equal("ok", body.Status)
	req.Equal(1, body.Online)
}
