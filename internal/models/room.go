package models

import "time"

// Participant represents an authenticated identity bound to one live connection.
// Display names are not unique; the session id is the identity.
type Participant struct {
	// ID is the session id handed to the client on authenticate
	ID string `json:"id"`

	// ConnID is the transport connection currently carrying this participant
	ConnID string `json:"-"`

	// DisplayName is the name chosen at authenticate time
	DisplayName string `json:"displayName"`

	// CurrentRoom is the room the participant most recently joined
	CurrentRoom string `json:"currentRoom"`

	// OnlineSince is when the participant authenticated
	OnlineSince time.Time `json:"onlineSince"`
}

// Summary returns the public view used in online lists.
func (p Participant) Summary() ParticipantSummary {
	return ParticipantSummary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		CurrentRoom: p.CurrentRoom,
		OnlineSince: p.OnlineSince,
	}
}

// ParticipantSummary is the element of an onlineList event
type ParticipantSummary struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	CurrentRoom string    `json:"currentRoom"`
	OnlineSince time.Time `json:"onlineSince"`
}

// Room is a snapshot of a named broadcast group and its members.
type Room struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// AuthenticateRequest is the payload of an inbound authenticate frame
type AuthenticateRequest struct {
	DisplayName string `json:"displayName"`

	// Token is an optional signed identity token
	Token string `json:"token,omitempty"`
}

// RoomRequest is the payload of joinRoom and leaveRoom frames
type RoomRequest struct {
	RoomName string `json:"roomName" validate:"required,max=64"`
}

// TypingRequest is the payload of an inbound typing frame
type TypingRequest struct {
	RoomName string `json:"roomName"`
	IsTyping bool   `json:"isTyping"`
}
