package models

import (
	"encoding/json"
	"time"
)

// EventType names a frame on the websocket connection.
type EventType string

// Inbound frame types
const (
	FrameAuthenticate EventType = "authenticate"
	FrameJoinRoom     EventType = "joinRoom"
	FrameLeaveRoom    EventType = "leaveRoom"
	FrameTyping       EventType = "typing"
	FrameSendMessage  EventType = "sendMessage"
	FrameMarkRead     EventType = "markRead"
	FrameAddReaction  EventType = "addReaction"
	FrameListOnline   EventType = "listOnline"
)

// Outbound event types
const (
	EventMessage         EventType = "message"
	EventOnlineList      EventType = "onlineList"
	EventRoomList        EventType = "roomList"
	EventNotification    EventType = "notification"
	EventReadReceipt     EventType = "readReceipt"
	EventReactionUpdated EventType = "reactionUpdated"
	EventTyping          EventType = "typing"
	EventAck             EventType = "ack"
	EventError           EventType = "error"
)

// Notification types
const (
	NotifyJoin           = "join"
	NotifyLeave          = "leave"
	NotifyJoinRoom       = "join-room"
	NotifyLeaveRoom      = "leave-room"
	NotifyPrivateMessage = "private-message"
)

// Frame is the envelope of every inbound websocket message
type Frame struct {
	Type      EventType       `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Event is the envelope of every outbound websocket message
type Event struct {
	Type      EventType `json:"type"`
	RequestID string    `json:"requestId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// Notification is the payload of a notification event
type Notification struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	RoomName    string `json:"roomName,omitempty"`
}

// ReadReceipt is the payload of a readReceipt event
type ReadReceipt struct {
	MessageID string `json:"messageId"`
	ReaderID  string `json:"readerId"`
}

// ReactionUpdate is the payload of a reactionUpdated event
type ReactionUpdate struct {
	MessageID string              `json:"messageId"`
	Symbol    string              `json:"symbol"`
	ReactorID string              `json:"reactorId"`
	Reactions map[string][]string `json:"reactions"`
}

// TypingSignal is the payload of a relayed typing event
type TypingSignal struct {
	DisplayName string `json:"displayName"`
	RoomName    string `json:"roomName"`
	IsTyping    bool   `json:"isTyping"`
}

// Ack answers a request frame. Only the fields relevant to the request are set.
type Ack struct {
	OK           bool                 `json:"ok"`
	Error        string               `json:"error,omitempty"`
	SessionID    string               `json:"sessionId,omitempty"`
	ID           string               `json:"id,omitempty"`
	Timestamp    *time.Time           `json:"timestamp,omitempty"`
	Participants []ParticipantSummary `json:"participants,omitempty"`
}

// ErrorPayload is sent for frames that cannot be processed at all
type ErrorPayload struct {
	Error string `json:"error"`
}
