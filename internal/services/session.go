package services

import (
	"strings"
	"sync"
	"time"

	"github.com/adi-253/chathub/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// SessionRegistry maps live connections to participants and is the source of truth for who is online.
type SessionRegistry struct {
	// participants stores participants by session id
	participants map[string]*models.Participant

	// byConn resolves a connection id to a session id
	byConn map[string]string

	mu sync.RWMutex
}

// NewSessionRegistry creates an empty SessionRegistry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		participants: make(map[string]*models.Participant),
		byConn:       make(map[string]string),
	}
}

// Authenticate binds a display name to a connection and places the participant in the default room.
// Authenticating an already bound connection keeps its session id and replaces the rest of the identity;
// replaced reports whether that happened.
func (r *SessionRegistry) Authenticate(connID, displayName, defaultRoom string, now time.Time) (p models.Participant, replaced bool, err error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return models.Participant{}, false, models.ErrInvalidIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byConn[connID]; ok {
		existing := r.participants[id]
		existing.DisplayName = name
		existing.CurrentRoom = defaultRoom
		existing.OnlineSince = now.UTC()
		return *existing, true, nil
	}

	participant := &models.Participant{
		ID:          uuid.NewString(),
		ConnID:      connID,
		DisplayName: name,
		CurrentRoom: defaultRoom,
		OnlineSince: now.UTC(),
	}
	r.participants[participant.ID] = participant
	r.byConn[connID] = participant.ID
	return *participant, false, nil
}

// Lookup returns the participant with the given session id
func (r *SessionRegistry) Lookup(id string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// LookupConn returns the participant bound to a connection
func (r *SessionRegistry) LookupConn(connID string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byConn[connID]
	if !ok {
		return models.Participant{}, false
	}
	return *r.participants[id], true
}

// SetCurrentRoom moves the participant's current room. It returns false for unknown ids.
func (r *SessionRegistry) SetCurrentRoom(id, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return false
	}
	p.CurrentRoom = room
	return true
}

// Remove deletes the participant. Removing an unknown id is a no-op.
func (r *SessionRegistry) Remove(id string) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return models.Participant{}, false
	}
	delete(r.participants, id)
	if r.byConn[p.ConnID] == id {
		delete(r.byConn, p.ConnID)
	}
	return *p, true
}

// ListOnline returns a summary of every online participant in no particular order
func (r *SessionRegistry) ListOnline() []models.ParticipantSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.MapToSlice(r.participants, func(_ string, p *models.Participant) models.ParticipantSummary {
		return p.Summary()
	})
}

// ConnIDs resolves session ids to connection ids, skipping ids that are no longer online.
func (r *SessionRegistry) ConnIDs(ids ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Uniq(lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		p, ok := r.participants[id]
		if !ok {
			return "", false
		}
		return p.ConnID, true
	}))
}

// Count returns the number of online participants
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
