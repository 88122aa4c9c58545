package hub

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks

import "github.com/adi-253/chathub/internal/models"

// Transport delivers events to live connections.
type Transport interface {
	// Push enqueues evt for one connection without blocking.
	Push(connID string, evt models.Event) error

	// Connections lists every open connection, authenticated or not.
	Connections() []string
}

// Archiver journals messages outside the hub. Failures never affect delivery.
type Archiver interface {
	Archive(msg models.Message) error
}

// Censor rewrites message text before it is stored.
type Censor interface {
	Censor(text string) (string, []string)
}
