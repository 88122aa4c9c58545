package hub

import (
	"context"
	"fmt"
	"strings"

	"github.com/adi-253/chathub/internal/models"
)

// Authenticate binds an identity to a connection and places it in the default room.
// Re-authenticating drops every room membership and starts over in the default room.
func (h *Hub) Authenticate(ctx context.Context, connID string, req models.AuthenticateRequest) (models.Participant, error) {
	identity, err := h.identity.Identify(ctx, req)
	if err != nil {
		h.log.Debug("Authentication rejected", "conn", connID, "error", err)
		return models.Participant{}, err
	}

	if prev, ok := h.sessions.LookupConn(connID); ok {
		h.rooms.LeaveAll(prev.ID)
	}

	defaultRoom := h.rooms.DefaultRoom()
	p, replaced, err := h.sessions.Authenticate(connID, identity.DisplayName, defaultRoom, h.now())
	if err != nil {
		return models.Participant{}, err
	}
	h.rooms.Join(p.ID, defaultRoom)

	h.log.Info("Participant authenticated",
		"conn", connID, "session", p.ID, "name", p.DisplayName, "subject", identity.Subject, "replaced", replaced)
	h.presence.Authenticated(p)
	return p, nil
}

// JoinRoom adds the connection's participant to a room and makes it the current room.
// Earlier memberships are kept.
func (h *Hub) JoinRoom(connID string, req models.RoomRequest) error {
	p, ok := h.sessions.LookupConn(connID)
	if !ok {
		return models.ErrUnauthenticated
	}
	name, err := h.roomName(req.RoomName)
	if err != nil {
		return err
	}

	created := h.rooms.Join(p.ID, name)
	h.sessions.SetCurrentRoom(p.ID, name)
	p.CurrentRoom = name

	h.log.Info("Joined room", "session", p.ID, "room", name, "created", created)
	h.presence.RoomJoined(p, name)
	return nil
}

// LeaveRoom removes the participant from a room. Leaving the current room moves
// the participant back to the default room, so the default room cannot be left while it is current.
func (h *Hub) LeaveRoom(connID string, req models.RoomRequest) error {
	p, ok := h.sessions.LookupConn(connID)
	if !ok {
		return models.ErrUnauthenticated
	}
	name, err := h.roomName(req.RoomName)
	if err != nil {
		return err
	}

	if name == h.rooms.DefaultRoom() && p.CurrentRoom == name {
		h.log.Debug("Leave ignored, default room is current", "session", p.ID, "room", name)
		return nil
	}
	if !h.rooms.Leave(p.ID, name) {
		h.log.Debug("Leave ignored, not a member", "session", p.ID, "room", name)
		return nil
	}
	if p.CurrentRoom == name {
		defaultRoom := h.rooms.DefaultRoom()
		h.rooms.Join(p.ID, defaultRoom)
		h.sessions.SetCurrentRoom(p.ID, defaultRoom)
	}

	h.log.Info("Left room", "session", p.ID, "room", name)
	h.presence.RoomLeft(p, name)
	return nil
}

// Typing relays a typing signal to the other members of the room.
// The payload room wins; otherwise the participant's current room is used.
// Signals for rooms the participant has not joined are dropped.
func (h *Hub) Typing(connID string, req models.TypingRequest) error {
	p, ok := h.sessions.LookupConn(connID)
	if !ok {
		return models.ErrUnauthenticated
	}
	room := strings.TrimSpace(req.RoomName)
	if room == "" {
		room = p.CurrentRoom
	}
	if !h.rooms.IsMember(p.ID, room) {
		h.log.Debug("Typing ignored, not a member", "session", p.ID, "room", room)
		return nil
	}
	h.presence.Typing(p, room, req.IsTyping)
	return nil
}

// ListOnline returns the online participants to an authenticated caller
func (h *Hub) ListOnline(connID string) ([]models.ParticipantSummary, error) {
	if _, ok := h.sessions.LookupConn(connID); !ok {
		return nil, models.ErrUnauthenticated
	}
	return h.sessions.ListOnline(), nil
}

// Disconnect forgets the connection's participant and tells everyone else.
// It is a no-op for connections that never authenticated.
func (h *Hub) Disconnect(connID string) {
	p, ok := h.sessions.LookupConn(connID)
	if !ok {
		return
	}
	rooms := h.rooms.LeaveAll(p.ID)
	h.sessions.Remove(p.ID)

	h.log.Info("Participant disconnected", "conn", connID, "session", p.ID, "rooms", rooms)
	h.presence.Disconnected(p)
}

func (h *Hub) roomName(raw string) (string, error) {
	req := models.RoomRequest{RoomName: strings.TrimSpace(raw)}
	if err := h.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidRoom, err)
	}
	return req.RoomName, nil
}
