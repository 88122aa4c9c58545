package services

import (
	"strings"
	"sync"

	"github.com/adi-253/chathub/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MessageStore keeps every message for the process lifetime.
// Room messages live in one ordered log per room; direct messages live in a ledger per participant pair.
type MessageStore struct {
	// logs maps a ledger key (room or direct ledger) to its messages in append order
	logs map[string][]*models.Message
	mu   sync.RWMutex
}

// NewMessageStore creates an empty MessageStore
func NewMessageStore() *MessageStore {
	return &MessageStore{
		logs: make(map[string][]*models.Message),
	}
}

// Append stores a copy of msg at the tail of its ledger and returns its id.
// An id is generated when msg has none.
func (s *MessageStore) Append(msg models.Message) string {
	stored := msg.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := stored.Ledger()
	s.logs[key] = append(s.logs[key], &stored)
	return stored.ID
}

// FindByID scans every ledger for the message
func (s *MessageStore) FindByID(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg := s.findLocked(id)
	if msg == nil {
		return models.Message{}, false
	}
	return msg.Clone(), true
}

func (s *MessageStore) findLocked(id string) *models.Message {
	for _, log := range s.logs {
		for _, msg := range log {
			if msg.ID == id {
				return msg
			}
		}
	}
	return nil
}

// Page returns one page of a room's messages in chronological order.
// Page 1 holds the newest pageSize messages; values below 1 are clamped to 1.
// Pages past the oldest message are empty.
func (s *MessageStore) Page(room string, page, pageSize int) []models.Message {
	return s.page(models.RoomLedger(room), page, pageSize)
}

// DirectPage pages the direct ledger between two participants the same way Page does
func (s *MessageStore) DirectPage(a, b string, page, pageSize int) []models.Message {
	return s.page(models.DirectLedger(a, b), page, pageSize)
}

func (s *MessageStore) page(key string, page, pageSize int) []models.Message {
	page, pageSize = max(1, page), max(1, pageSize)

	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[key]
	// Bound page before multiplying so huge arguments cannot overflow
	pages := len(log) / pageSize
	if len(log)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return []models.Message{}
	}
	end := len(log) - (page-1)*pageSize
	start := max(0, end-pageSize)
	return lo.Map(log[start:end], func(msg *models.Message, _ int) models.Message {
		return msg.Clone()
	})
}

// Count returns the number of messages in a room
func (s *MessageStore) Count(room string) int {
	return s.count(models.RoomLedger(room))
}

// DirectCount returns the number of messages exchanged between two participants
func (s *MessageStore) DirectCount(a, b string) int {
	return s.count(models.DirectLedger(a, b))
}

func (s *MessageStore) count(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[key])
}

// MarkRead records that reader has read the message.
// It returns true only when the reader was newly added.
func (s *MessageStore) MarkRead(id, reader string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findLocked(id)
	if msg == nil || lo.Contains(msg.ReadBy, reader) {
		return false
	}
	msg.ReadBy = append(msg.ReadBy, reader)
	return true
}

// AddReaction records a reaction and returns a snapshot of all reactions on the message.
// It returns false when the message is unknown or the symbol is blank.
func (s *MessageStore) AddReaction(id, symbol, reactor string) (map[string][]string, bool) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.findLocked(id)
	if msg == nil {
		return nil, false
	}
	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}
	if !lo.Contains(msg.Reactions[symbol], reactor) {
		msg.Reactions[symbol] = append(msg.Reactions[symbol], reactor)
	}
	return models.CloneReactions(msg.Reactions), true
}

// UnreadCount returns how many messages in a room the reader has not acknowledged
func (s *MessageStore) UnreadCount(room, reader string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.CountBy(s.logs[models.RoomLedger(room)], func(msg *models.Message) bool {
		return !lo.Contains(msg.ReadBy, reader)
	})
}
