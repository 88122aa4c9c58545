package models

import (
	"slices"
	"time"
)

// Message represents a chat message posted to a room or sent directly to one participant.
// Text and attachments never change after creation; only ReadBy and Reactions grow.
type Message struct {
	// ID is the unique identifier for this message
	ID string `json:"id"`

	// RoomName is the room the message was posted to, empty for direct messages
	RoomName string `json:"roomName,omitempty"`

	// SenderID is the sender's session id
	SenderID string `json:"senderId"`

	// SenderDisplayName is the sender's display name at send time
	SenderDisplayName string `json:"senderDisplayName"`

	// RecipientID is only set on direct messages
	RecipientID string `json:"recipientId,omitempty"`

	// Text may be empty when attachments are present
	Text string `json:"text"`

	Attachments []Attachment `json:"attachments,omitempty"`

	// SentAt is when the hub accepted the message
	SentAt time.Time `json:"sentAt"`

	// ReadBy lists the participants that acknowledged the message
	ReadBy []string `json:"readBy"`

	// Reactions maps a reaction symbol to the participants that used it
	Reactions map[string][]string `json:"reactions"`
}

// Attachment is an opaque named payload carried with a message.
type Attachment struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// IsDirect reports whether the message is addressed to a single participant.
func (m Message) IsDirect() bool {
	return m.RecipientID != ""
}

// Ledger returns the key of the log the message belongs to.
// Room and direct ledgers never share a key, whatever the room is called.
func (m Message) Ledger() string {
	if m.IsDirect() {
		return DirectLedger(m.SenderID, m.RecipientID)
	}
	return RoomLedger(m.RoomName)
}

// Clone returns a deep copy so callers never share the stored slices and maps.
func (m Message) Clone() Message {
	out := m
	out.Attachments = slices.Clone(m.Attachments)
	out.ReadBy = slices.Clone(m.ReadBy)
	if out.ReadBy == nil {
		out.ReadBy = []string{}
	}
	out.Reactions = CloneReactions(m.Reactions)
	return out
}

// CloneReactions deep copies a reactions map.
func CloneReactions(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for symbol, reactors := range in {
		out[symbol] = slices.Clone(reactors)
	}
	return out
}

// RoomLedger returns the ledger key of a room
func RoomLedger(room string) string {
	return "room:" + room
}

// DirectLedger returns the ledger key for the conversation between two participants.
// The key does not depend on argument order.
func DirectLedger(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "dm:" + a + ":" + b
}

// SendMessageRequest is the payload of an inbound sendMessage frame
type SendMessageRequest struct {
	RoomName    string       `json:"roomName,omitempty"`
	RecipientID string       `json:"recipientId,omitempty"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// MarkReadRequest is the payload of an inbound markRead frame
type MarkReadRequest struct {
	RoomName  string `json:"roomName"`
	MessageID string `json:"messageId"`
}

// AddReactionRequest is the payload of an inbound addReaction frame
type AddReactionRequest struct {
	RoomName  string `json:"roomName"`
	MessageID string `json:"messageId"`
	Symbol    string `json:"symbol" validate:"required,max=32"`
}

// MessagePage is the response for paged message queries
type MessagePage struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Data     []Message `json:"data"`
}

// UnreadResponse is the response for unread count queries
type UnreadResponse struct {
	Room        string `json:"room"`
	Participant string `json:"participant"`
	Unread      int    `json:"unread"`
}
