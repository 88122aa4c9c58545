package hub

import (
	"log/slog"

	"github.com/adi-253/chathub/internal/models"
	"github.com/adi-253/chathub/internal/services"
	"github.com/samber/lo"
)

// Presence turns session and room changes into fan-out events. It keeps no state of its own.
type Presence struct {
	log       *slog.Logger
	sessions  *services.SessionRegistry
	rooms     *services.RoomDirectory
	transport Transport
}

func NewPresence(log *slog.Logger, sessions *services.SessionRegistry, rooms *services.RoomDirectory, transport Transport) *Presence {
	return &Presence{log: log, sessions: sessions, rooms: rooms, transport: transport}
}

// Authenticated announces a new or re-authenticated participant
func (p *Presence) Authenticated(who models.Participant) {
	p.broadcastOnlineList()
	p.pushAll(models.Event{
		Type:    models.EventNotification,
		Payload: models.Notification{Type: models.NotifyJoin, DisplayName: who.DisplayName},
	}, who.ConnID)
}

// RoomJoined announces that who joined room
func (p *Presence) RoomJoined(who models.Participant, room string) {
	p.broadcastRoomList()
	p.pushRoom(room, models.Event{
		Type:    models.EventNotification,
		Payload: models.Notification{Type: models.NotifyJoinRoom, DisplayName: who.DisplayName, RoomName: room},
	})
}

// RoomLeft announces to the remaining members that who left room
func (p *Presence) RoomLeft(who models.Participant, room string) {
	p.broadcastRoomList()
	p.pushRoom(room, models.Event{
		Type:    models.EventNotification,
		Payload: models.Notification{Type: models.NotifyLeaveRoom, DisplayName: who.DisplayName, RoomName: room},
	})
}

// Typing relays a typing signal to the other members of room
func (p *Presence) Typing(who models.Participant, room string, isTyping bool) {
	evt := models.Event{
		Type:    models.EventTyping,
		Payload: models.TypingSignal{DisplayName: who.DisplayName, RoomName: room, IsTyping: isTyping},
	}
	others := lo.Without(p.rooms.Members(room), who.ID)
	p.pushTo(p.sessions.ConnIDs(others...), evt)
}

// Disconnected announces a departed participant to everyone still connected
func (p *Presence) Disconnected(who models.Participant) {
	p.broadcastOnlineList()
	p.pushAll(models.Event{
		Type:    models.EventNotification,
		Payload: models.Notification{Type: models.NotifyLeave, DisplayName: who.DisplayName},
	}, who.ConnID)
}

func (p *Presence) broadcastOnlineList() {
	p.pushAll(models.Event{Type: models.EventOnlineList, Payload: p.sessions.ListOnline()}, "")
}

func (p *Presence) broadcastRoomList() {
	p.pushAll(models.Event{Type: models.EventRoomList, Payload: p.rooms.ListRooms()}, "")
}

func (p *Presence) pushRoom(room string, evt models.Event) {
	p.pushTo(p.sessions.ConnIDs(p.rooms.Members(room)...), evt)
}

func (p *Presence) pushAll(evt models.Event, except string) {
	p.pushTo(lo.Without(p.transport.Connections(), except), evt)
}

// pushTo delivers evt to each connection. A failing connection is logged and skipped.
func (p *Presence) pushTo(connIDs []string, evt models.Event) {
	for _, connID := range connIDs {
		if err := p.transport.Push(connID, evt); err != nil {
			p.log.Warn("Push failed", "conn", connID, "event", evt.Type, "error", err)
		}
	}
}
