// Package hub routes chat traffic between participants: it owns connection lifecycle, presence
// fan-out and message delivery on top of the session, room and message collections.
package hub

import (
	"log/slog"
	"time"

	"github.com/adi-253/chathub/internal/auth"
	"github.com/adi-253/chathub/internal/services"
	"github.com/go-playground/validator/v10"
)

// Options configures the optional collaborators of a Hub
type Options struct {
	// Identity decides who a connection is; defaults to the display name policy
	Identity auth.IdentityProvider

	// Censor masks words in message text; nil disables moderation
	Censor Censor

	// Archive journals every stored message; nil disables archiving
	Archive Archiver

	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// Hub is the single aggregate that owns all chat state for the process.
type Hub struct {
	log       *slog.Logger
	sessions  *services.SessionRegistry
	rooms     *services.RoomDirectory
	messages  *services.MessageStore
	transport Transport
	presence  *Presence
	identity  auth.IdentityProvider
	censor    Censor
	archive   Archiver
	validate  *validator.Validate
	now       func() time.Time
}

// New creates a Hub over the given collections
func New(
	log *slog.Logger,
	sessions *services.SessionRegistry,
	rooms *services.RoomDirectory,
	messages *services.MessageStore,
	transport Transport,
	opts Options,
) *Hub {
	if opts.Identity == nil {
		opts.Identity = auth.NewNameProvider()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Hub{
		log:       log,
		sessions:  sessions,
		rooms:     rooms,
		messages:  messages,
		transport: transport,
		presence:  NewPresence(log, sessions, rooms, transport),
		identity:  opts.Identity,
		censor:    opts.Censor,
		archive:   opts.Archive,
		validate:  validator.New(),
		now:       opts.Now,
	}
}

// DefaultRoom returns the room participants are placed in after authenticating
func (h *Hub) DefaultRoom() string {
	return h.rooms.DefaultRoom()
}
