// Package archive journals messages to badger so history can be inspected after the fact.
// The journal is best effort. It is never read back into the live hub, only served as history over REST.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adi-253/chathub/internal/models"
	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// Archive is a badger-backed message journal.
type Archive struct {
	db  *badger.DB
	log *slog.Logger
}

// Open opens (or creates) the archive at path
func Open(path string, log *slog.Logger) (*Archive, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open archive at %s: %w", path, err)
	}
	return New(db, log), nil
}

// New wraps an already opened badger database
func New(db *badger.DB, log *slog.Logger) *Archive {
	return &Archive{db: db, log: log}
}

// Archive writes the current state of msg. Writing the same message again overwrites it.
func (a *Archive) Archive(msg models.Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", msg.ID, err)
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(msg), value)
	})
}

// History returns up to limit messages of a ledger, newest first.
func (a *Archive) History(ledger string, limit int) ([]models.Message, error) {
	var out []models.Message
	prefix := ledgerPrefix(ledger)

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var msg models.Message
				if err := json.Unmarshal(v, &msg); err != nil {
					return err
				}
				out = append(out, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history of %s: %w", ledger, err)
	}
	return out, nil
}

// Compact runs one pass of value log garbage collection.
func (a *Archive) Compact() error {
	err := a.db.RunValueLogGC(gcDiscardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close flushes and closes the database
func (a *Archive) Close() error {
	a.log.Info("Closing message archive")
	return a.db.Close()
}

func ledgerPrefix(ledger string) []byte {
	return []byte("msg\x00" + ledger + "\x00")
}

// messageKey sorts chronologically within a ledger. Parts are NUL separated since room names may contain colons.
func messageKey(msg models.Message) []byte {
	return fmt.Appendf(ledgerPrefix(msg.Ledger()), "%020d\x00%s", msg.SentAt.UnixNano(), msg.ID)
}
