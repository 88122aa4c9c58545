package hub

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/adi-253/chathub/internal/models"
	"github.com/adi-253/chathub/internal/services"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// recordingTransport keeps every pushed event per connection
type recordingTransport struct {
	mu     sync.Mutex
	conns  []string
	events map[string][]models.Event
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{events: make(map[string][]models.Event)}
}

func (t *recordingTransport) Push(connID string, evt models.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !slices.Contains(t.conns, connID) {
		return models.ErrConnectionClosed
	}
	t.events[connID] = append(t.events[connID], evt)
	return nil
}

func (t *recordingTransport) Connections() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.conns)
}

func (t *recordingTransport) connect(connIDs ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns = append(t.conns, connIDs...)
}

func (t *recordingTransport) disconnect(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns = lo.Without(t.conns, connID)
}

func (t *recordingTransport) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = make(map[string][]models.Event)
}

func (t *recordingTransport) received(connID string, typ models.EventType) []models.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Filter(t.events[connID], func(e models.Event, _ int) bool { return e.Type == typ })
}

func (t *recordingTransport) notifications(connID string) []models.Notification {
	return lo.Map(t.received(connID, models.EventNotification), func(e models.Event, _ int) models.Notification {
		return e.Payload.(models.Notification)
	})
}

type fixture struct {
	hub       *Hub
	transport *recordingTransport
	sessions  *services.SessionRegistry
	rooms     *services.RoomDirectory
	messages  *services.MessageStore
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	transport := newRecordingTransport()
	sessions := services.NewSessionRegistry()
	rooms := services.NewRoomDirectory("general")
	messages := services.NewMessageStore()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	}
	return &fixture{
		hub:       New(log, sessions, rooms, messages, transport, opts),
		transport: transport,
		sessions:  sessions,
		rooms:     rooms,
		messages:  messages,
	}
}

// login connects and authenticates a participant on connID
func (f *fixture) login(t *testing.T, connID, name string) models.Participant {
	t.Helper()
	f.transport.connect(connID)
	p, err := f.hub.Authenticate(context.Background(), connID, models.AuthenticateRequest{DisplayName: name})
	require.NoError(t, err)
	return p
}

func onlineIDs(evt models.Event) []string {
	return lo.Map(evt.Payload.([]models.ParticipantSummary), func(s models.ParticipantSummary, _ int) string { return s.ID })
}
