package hub

import (
	"fmt"
	"strings"
	"time"

	"github.com/adi-253/chathub/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Route is where a validated message is delivered.
type Route int

const (
	RouteRoom Route = iota
	RouteDirect
	RouteOffline
)

func (r Route) String() string {
	switch r {
	case RouteRoom:
		return "room"
	case RouteDirect:
		return "direct"
	case RouteOffline:
		return "offline"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Receipt confirms that a message was stored. It says nothing about live delivery.
type Receipt struct {
	ID        string
	Timestamp time.Time
	Route     Route
}

// SendMessage validates, routes, stores and delivers a message, then returns its receipt.
// Unauthenticated senders and room names that could not be joined are rejected.
func (h *Hub) SendMessage(connID string, req models.SendMessageRequest) (Receipt, error) {
	sender, ok := h.sessions.LookupConn(connID)
	if !ok {
		return Receipt{}, models.ErrUnauthenticated
	}

	route, recipient := h.resolve(sender, req)
	if route == RouteRoom {
		room := req.RoomName
		if strings.TrimSpace(room) == "" {
			room = sender.CurrentRoom
		}
		name, err := h.roomName(room)
		if err != nil {
			return Receipt{}, err
		}
		req.RoomName = name
	}
	msg := h.stamp(sender, req, route, recipient)
	h.messages.Append(msg)
	h.archiveMessage(msg)

	h.log.Debug("Message stored", "id", msg.ID, "route", route, "ledger", msg.Ledger())
	h.deliver(route, msg, sender, recipient)

	return Receipt{ID: msg.ID, Timestamp: msg.SentAt, Route: route}, nil
}

func (h *Hub) resolve(sender models.Participant, req models.SendMessageRequest) (Route, models.Participant) {
	recipientID := strings.TrimSpace(req.RecipientID)
	if recipientID == "" {
		return RouteRoom, models.Participant{}
	}
	if recipient, ok := h.sessions.Lookup(recipientID); ok {
		return RouteDirect, recipient
	}
	return RouteOffline, models.Participant{ID: recipientID}
}

func (h *Hub) stamp(sender models.Participant, req models.SendMessageRequest, route Route, recipient models.Participant) models.Message {
	text := req.Text
	if h.censor != nil {
		var found []string
		if text, found = h.censor.Censor(text); len(found) > 0 {
			h.log.Info("Message text censored", "session", sender.ID, "words", len(found))
		}
	}

	msg := models.Message{
		ID:                uuid.NewString(),
		SenderID:          sender.ID,
		SenderDisplayName: sender.DisplayName,
		Text:              text,
		Attachments:       req.Attachments,
		SentAt:            h.now().UTC(),
		ReadBy:            []string{},
		Reactions:         map[string][]string{},
	}
	if route == RouteRoom {
		msg.RoomName = req.RoomName
		msg.ReadBy = []string{sender.ID}
	} else {
		msg.RecipientID = recipient.ID
	}
	return msg
}

func (h *Hub) deliver(route Route, msg models.Message, sender, recipient models.Participant) {
	evt := models.Event{Type: models.EventMessage, Payload: msg}

	switch route {
	case RouteRoom:
		members := h.rooms.Members(msg.RoomName)
		h.presence.pushTo(h.sessions.ConnIDs(append(members, sender.ID)...), evt)
	case RouteDirect:
		h.presence.pushTo(lo.Uniq([]string{sender.ConnID, recipient.ConnID}), evt)
		if recipient.ID != sender.ID {
			h.presence.pushTo([]string{recipient.ConnID}, models.Event{
				Type:    models.EventNotification,
				Payload: models.Notification{Type: models.NotifyPrivateMessage, DisplayName: sender.DisplayName},
			})
		}
	case RouteOffline:
		h.presence.pushTo([]string{sender.ConnID}, evt)
	}
}

// MarkRead records that the connection's participant read a message and tells the message's audience.
// Unknown messages and repeated reads are silently ignored.
func (h *Hub) MarkRead(connID string, req models.MarkReadRequest) error {
	reader, ok := h.sessions.LookupConn(connID)
	if !ok {
		return models.ErrUnauthenticated
	}
	if !h.messages.MarkRead(req.MessageID, reader.ID) {
		return nil
	}

	msg, ok := h.messages.FindByID(req.MessageID)
	if !ok {
		return nil
	}
	h.archiveMessage(msg)
	h.presence.pushTo(h.audience(msg), models.Event{
		Type:    models.EventReadReceipt,
		Payload: models.ReadReceipt{MessageID: msg.ID, ReaderID: reader.ID},
	})
	return nil
}

// AddReaction records a reaction and sends the updated reactions to the message's audience.
// Unknown messages are silently ignored; a blank symbol is an error.
func (h *Hub) AddReaction(connID string, req models.AddReactionRequest) error {
	reactor, ok := h.sessions.LookupConn(connID)
	if !ok {
		return models.ErrUnauthenticated
	}
	req.Symbol = strings.TrimSpace(req.Symbol)
	if err := h.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidReaction, err)
	}

	reactions, ok := h.messages.AddReaction(req.MessageID, req.Symbol, reactor.ID)
	if !ok {
		return nil
	}
	msg, ok := h.messages.FindByID(req.MessageID)
	if !ok {
		return nil
	}
	h.archiveMessage(msg)
	h.presence.pushTo(h.audience(msg), models.Event{
		Type: models.EventReactionUpdated,
		Payload: models.ReactionUpdate{
			MessageID: msg.ID,
			Symbol:    req.Symbol,
			ReactorID: reactor.ID,
			Reactions: reactions,
		},
	})
	return nil
}

// audience returns the connections that should see updates to msg
func (h *Hub) audience(msg models.Message) []string {
	if msg.IsDirect() {
		return h.sessions.ConnIDs(msg.SenderID, msg.RecipientID)
	}
	return h.sessions.ConnIDs(h.rooms.Members(msg.RoomName)...)
}

func (h *Hub) archiveMessage(msg models.Message) {
	if h.archive == nil {
		return
	}
	if err := h.archive.Archive(msg); err != nil {
		h.log.Warn("Archive write failed", "id", msg.ID, "error", err)
	}
}
