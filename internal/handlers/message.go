package handlers

import (
	"net/http"
	"strconv"

	"github.com/adi-253/chathub/internal/models"
	"github.com/adi-253/chathub/internal/services"
)

const defaultPageSize = 20

// MessageHandler serves catch-up loads of stored messages.
type MessageHandler struct {
	messages    *services.MessageStore
	defaultRoom string
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(messages *services.MessageStore, defaultRoom string) *MessageHandler {
	return &MessageHandler{messages: messages, defaultRoom: defaultRoom}
}

// GetMessages handles GET /api/messages
// Query params:
//   - room: room name, defaults to the default room
//   - page: 1 is the newest page
//   - pageSize (or limit): messages per page, defaults to 20
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := pagination(w, r)
	if !ok {
		return
	}
	room := r.URL.Query().Get("room")
	if room == "" {
		room = h.defaultRoom
	}

	writeJSON(w, http.StatusOK, models.MessagePage{
		Total:    h.messages.Count(room),
		Page:     page,
		PageSize: pageSize,
		Data:     h.messages.Page(room, page, pageSize),
	})
}

// GetDirectMessages handles GET /api/messages/direct?a=&b=
// Pages the conversation between two participants.
func (h *MessageHandler) GetDirectMessages(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := pagination(w, r)
	if !ok {
		return
	}
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "participants a and b are required")
		return
	}

	writeJSON(w, http.StatusOK, models.MessagePage{
		Total:    h.messages.DirectCount(a, b),
		Page:     page,
		PageSize: pageSize,
		Data:     h.messages.DirectPage(a, b, page, pageSize),
	})
}

// GetUnread handles GET /api/messages/unread?room=&participant=
func (h *MessageHandler) GetUnread(w http.ResponseWriter, r *http.Request) {
	participant := r.URL.Query().Get("participant")
	if participant == "" {
		writeError(w, http.StatusBadRequest, "participant is required")
		return
	}
	room := r.URL.Query().Get("room")
	if room == "" {
		room = h.defaultRoom
	}

	writeJSON(w, http.StatusOK, models.UnreadResponse{
		Room:        room,
		Participant: participant,
		Unread:      h.messages.UnreadCount(room, participant),
	})
}

// pagination reads page and pageSize, clamping both to at least 1.
// It writes a 400 and returns false for non-numeric values.
func pagination(w http.ResponseWriter, r *http.Request) (page, pageSize int, ok bool) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be a number")
		return 0, 0, false
	}

	rawSize := q.Get("pageSize")
	if rawSize == "" {
		rawSize = q.Get("limit")
	}
	pageSize, err = intParam(rawSize, defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "pageSize must be a number")
		return 0, 0, false
	}
	return max(1, page), max(1, pageSize), true
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
