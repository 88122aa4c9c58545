package archive

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/adi-253/chathub/internal/models"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	a, err := Open(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_History_Newest_First(t *testing.T) {
	req := require.New(t)
	a := openTestArchive(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Given five messages in general and one in another room
	for i := range 5 {
		req.NoError(a.Archive(models.Message{
			ID:       uuid.NewString(),
			RoomName: "general",
			Text:     fmt.Sprintf("m%d", i),
			SentAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}
	req.NoError(a.Archive(models.Message{ID: uuid.NewString(), RoomName: "general-2", Text: "elsewhere", SentAt: base}))

	// When the last three are read back
	history, err := a.History(models.RoomLedger("general"), 3)

	// Then they come newest first and stay within the ledger
	req.NoError(err)
	req.Len(history, 3)
	req.Equal("m4", history[0].Text)
	req.Equal("m2", history[2].Text)
}

func TestArchive_Rewrite_Overwrites(t *testing.T) {
	req := require.New(t)
	a := openTestArchive(t)
	msg := models.Message{ID: "m1", SenderID: "a", RecipientID: "b", Text: "hi", SentAt: time.Now().UTC()}

	req.NoError(a.Archive(msg))
	msg.ReadBy = []string{"b"}
	req.NoError(a.Archive(msg))

	history, err := a.History(models.DirectLedger("b", "a"), 10)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal([]string{"b"}, history[0].ReadBy)
}

func TestArchive_Compact_Nothing_To_Rewrite(t *testing.T) {
	req := require.New(t)
	a := openTestArchive(t)

	req.NoError(a.Compact())
}

func TestArchive_Compact_In_Memory(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	a := New(db, logs.GetLoggerFromLevel(slog.LevelDebug))
	t.Cleanup(func() { a.Close() })

	req.NoError(a.Archive(models.Message{ID: "m", RoomName: "general", SentAt: time.Now()}))
	req.NoError(a.Compact())
}
