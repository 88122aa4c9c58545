package handlers

import (
	"log/slog"
	"net/http"

	"github.com/adi-253/chathub/internal/models"
)

const maxHistoryLimit = 500

// HistoryReader reads archived messages of one ledger, newest first
type HistoryReader interface {
	History(ledger string, limit int) ([]models.Message, error)
}

// HistoryHandler serves the message archive.
type HistoryHandler struct {
	history     HistoryReader
	defaultRoom string
	log         *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler instance.
func NewHistoryHandler(history HistoryReader, defaultRoom string, log *slog.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, defaultRoom: defaultRoom, log: log}
}

// GetHistory handles GET /api/history
// Query params:
//   - room: room name, defaults to the default room
//   - a, b: two participant ids; when both are set the direct conversation is read instead
//   - limit: at most this many messages, newest first (default 20, capped at 500)
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a number")
		return
	}
	limit = min(max(1, limit), maxHistoryLimit)

	ledger := models.RoomLedger(h.defaultRoom)
	a, b := q.Get("a"), q.Get("b")
	switch {
	case a != "" && b != "":
		ledger = models.DirectLedger(a, b)
	case a != "" || b != "":
		writeError(w, http.StatusBadRequest, "participants a and b go together")
		return
	case q.Get("room") != "":
		ledger = models.RoomLedger(q.Get("room"))
	}

	messages, err := h.history.History(ledger, limit)
	if err != nil {
		h.log.Error("History read failed", "ledger", ledger, "error", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}
