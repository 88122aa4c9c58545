package hub

import (
	"context"
	"testing"

	"github.com/adi-253/chathub/internal/auth"
	"github.com/adi-253/chathub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestHub_Authenticate_Broadcasts_Presence(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})

	// Given alice is online
	alice := f.login(t, "conn-a", "alice")
	f.transport.reset()

	// When bob authenticates
	bob := f.login(t, "conn-b", "bob")

	// Then both receive the online list with both participants
	for _, conn := range []string{"conn-a", "conn-b"} {
		lists := f.transport.received(conn, models.EventOnlineList)
		req.Len(lists, 1)
		req.ElementsMatch([]string{alice.ID, bob.ID}, onlineIDs(lists[0]))
	}
	// And only alice is told that bob joined
	req.Equal([]models.Notification{{Type: models.NotifyJoin, DisplayName: "bob"}}, f.transport.notifications("conn-a"))
	req.Empty(f.transport.notifications("conn-b"))

	// And bob sits in the default room
	req.Equal("general", bob.CurrentRoom)
	req.Contains(f.rooms.Members("general"), bob.ID)
}

func TestHub_Authenticate_Rejects_Blank_Name(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.transport.connect("conn-a")

	_, err := f.hub.Authenticate(context.Background(), "conn-a", models.AuthenticateRequest{DisplayName: "   "})

	req.ErrorIs(err, models.ErrInvalidIdentity)
	req.Zero(f.sessions.Count())
	req.Empty(f.transport.received("conn-a", models.EventOnlineList))
}

func TestHub_Unauthenticated_Actions_Have_No_Effect(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.transport.connect("conn-x")

	req.ErrorIs(f.hub.JoinRoom("conn-x", models.RoomRequest{RoomName: "random"}), models.ErrUnauthenticated)
	req.ErrorIs(f.hub.LeaveRoom("conn-x", models.RoomRequest{RoomName: "general"}), models.ErrUnauthenticated)
	req.ErrorIs(f.hub.Typing("conn-x", models.TypingRequest{IsTyping: true}), models.ErrUnauthenticated)
	_, err := f.hub.SendMessage("conn-x", models.SendMessageRequest{Text: "hi"})
	req.ErrorIs(err, models.ErrUnauthenticated)
	req.ErrorIs(f.hub.MarkRead("conn-x", models.MarkReadRequest{MessageID: "m"}), models.ErrUnauthenticated)
	req.ErrorIs(f.hub.AddReaction("conn-x", models.AddReactionRequest{MessageID: "m", Symbol: "👍"}), models.ErrUnauthenticated)
	_, err = f.hub.ListOnline("conn-x")
	req.ErrorIs(err, models.ErrUnauthenticated)

	req.Equal([]string{"general"}, f.rooms.ListRooms())
	req.Zero(f.messages.Count("general"))
	req.Empty(f.transport.events)
}

func TestHub_JoinRoom_Then_LeaveRoom(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	alice := f.login(t, "conn-a", "alice")
	f.login(t, "conn-b", "bob")
	f.transport.reset()

	// When alice joins a new room
	req.NoError(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: " random "}))

	// Then everyone gets the room list and only room members get the join notice
	for _, conn := range []string{"conn-a", "conn-b"} {
		lists := f.transport.received(conn, models.EventRoomList)
		req.Len(lists, 1)
		req.Equal([]string{"general", "random"}, lists[0].Payload)
	}
	req.Equal([]models.Notification{{Type: models.NotifyJoinRoom, DisplayName: "alice", RoomName: "random"}},
		f.transport.notifications("conn-a"))
	req.Empty(f.transport.notifications("conn-b"))

	// And alice keeps her default room membership while random becomes current
	p, _ := f.sessions.Lookup(alice.ID)
	req.Equal("random", p.CurrentRoom)
	req.Contains(f.rooms.Members("general"), alice.ID)

	// When she leaves it
	req.NoError(f.hub.LeaveRoom("conn-a", models.RoomRequest{RoomName: "random"}))

	// Then her current room falls back to the default and the room survives
	p, _ = f.sessions.Lookup(alice.ID)
	req.Equal("general", p.CurrentRoom)
	req.Equal([]string{"general", "random"}, f.rooms.ListRooms())
	req.Empty(f.rooms.Members("random"))
}

func TestHub_JoinRoom_Requires_Name(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.login(t, "conn-a", "alice")

	req.ErrorIs(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: "  "}), models.ErrInvalidRoom)
	req.Equal([]string{"general"}, f.rooms.ListRooms())
}

func TestHub_Many_Joins_List_Room_Once(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	for _, conn := range []string{"c1", "c2", "c3", "c4"} {
		f.login(t, conn, conn)
		req.NoError(f.hub.JoinRoom(conn, models.RoomRequest{RoomName: "x"}))
	}

	req.Equal([]string{"general", "x"}, f.rooms.ListRooms())
	req.Len(f.rooms.Members("x"), 4)
}

func TestHub_Reauthenticate_Restarts_In_Default_Room(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	first := f.login(t, "conn-a", "alice")
	req.NoError(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: "random"}))

	// When the connection authenticates again under a new name
	second, err := f.hub.Authenticate(context.Background(), "conn-a", models.AuthenticateRequest{DisplayName: "alicia"})

	// Then the identity is replaced and only the default room membership remains
	req.NoError(err)
	req.Equal(first.ID, second.ID)
	req.Equal("alicia", second.DisplayName)
	req.Equal("general", second.CurrentRoom)
	req.Empty(f.rooms.Members("random"))
	req.Equal([]string{first.ID}, f.rooms.Members("general"))
	req.Equal(1, f.sessions.Count())
}

func TestHub_Disconnect_Notifies_Remaining(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	alice := f.login(t, "conn-a", "alice")
	bob := f.login(t, "conn-b", "bob")
	req.NoError(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: "random"}))
	f.transport.reset()

	// When alice disconnects
	f.hub.Disconnect("conn-a")
	f.transport.disconnect("conn-a")

	// Then bob gets an online list without alice and a leave notification
	lists := f.transport.received("conn-b", models.EventOnlineList)
	req.Len(lists, 1)
	req.Equal([]string{bob.ID}, onlineIDs(lists[0]))
	req.Equal([]models.Notification{{Type: models.NotifyLeave, DisplayName: "alice"}}, f.transport.notifications("conn-b"))

	// And alice is gone from every room
	req.NotContains(f.rooms.Members("general"), alice.ID)
	req.Empty(f.rooms.Members("random"))
	_, ok := f.sessions.Lookup(alice.ID)
	req.False(ok)

	// And later frames from that connection are rejected
	_, err := f.hub.SendMessage("conn-a", models.SendMessageRequest{Text: "too late"})
	req.ErrorIs(err, models.ErrUnauthenticated)
}

func TestHub_Disconnect_Unauthenticated_Is_Noop(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.login(t, "conn-b", "bob")
	f.transport.connect("conn-x")
	f.transport.reset()

	f.hub.Disconnect("conn-x")

	req.Empty(f.transport.received("conn-b", models.EventOnlineList))
	req.Equal(1, f.sessions.Count())
}

func TestHub_Typing_Relays_To_Other_Members(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.login(t, "conn-a", "alice")
	f.login(t, "conn-b", "bob")
	f.login(t, "conn-c", "carol")
	req.NoError(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: "random"}))
	req.NoError(f.hub.JoinRoom("conn-b", models.RoomRequest{RoomName: "random"}))
	f.transport.reset()

	// When alice types without naming a room
	req.NoError(f.hub.Typing("conn-a", models.TypingRequest{IsTyping: true}))

	// Then only bob, the other member of her current room, is told
	typing := f.transport.received("conn-b", models.EventTyping)
	req.Len(typing, 1)
	req.Equal(models.TypingSignal{DisplayName: "alice", RoomName: "random", IsTyping: true}, typing[0].Payload)
	req.Empty(f.transport.received("conn-a", models.EventTyping))
	req.Empty(f.transport.received("conn-c", models.EventTyping))
}

func TestHub_ListOnline(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	alice := f.login(t, "conn-a", "alice")
	bob := f.login(t, "conn-b", "bob")

	online, err := f.hub.ListOnline("conn-a")

	req.NoError(err)
	req.ElementsMatch([]models.ParticipantSummary{alice.Summary(), bob.Summary()}, online)
}

func TestHub_Default_Room_Stays_Joined(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	alice := f.login(t, "conn-a", "alice")

	// Leaving the default room while it is current is ignored
	req.NoError(f.hub.LeaveRoom("conn-a", models.RoomRequest{RoomName: "general"}))
	req.True(f.rooms.IsMember(alice.ID, "general"))

	// Given alice moved to random and then left general
	req.NoError(f.hub.JoinRoom("conn-a", models.RoomRequest{RoomName: "random"}))
	req.NoError(f.hub.LeaveRoom("conn-a", models.RoomRequest{RoomName: "general"}))
	req.False(f.rooms.IsMember(alice.ID, "general"))

	// When she leaves random as well
	req.NoError(f.hub.LeaveRoom("conn-a", models.RoomRequest{RoomName: "random"}))

	// Then she is back in general as a member, not only as her current room
	p, _ := f.sessions.Lookup(alice.ID)
	req.Equal("general", p.CurrentRoom)
	req.True(f.rooms.IsMember(alice.ID, "general"))
}

func TestHub_Typing_Ignores_Rooms_Not_Joined(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Options{})
	f.login(t, "conn-a", "alice")
	f.login(t, "conn-b", "bob")
	req.NoError(f.hub.JoinRoom("conn-b", models.RoomRequest{RoomName: "secret"}))
	f.transport.reset()

	// When alice types into a room she never joined
	req.NoError(f.hub.Typing("conn-a", models.TypingRequest{RoomName: "secret", IsTyping: true}))

	// Then its members hear nothing
	req.Empty(f.transport.received("conn-b", models.EventTyping))
}

func TestHub_Authenticate_With_Token(t *testing.T) {
	req := require.New(t)
	secret := "hub-secret"
	f := newFixture(t, Options{Identity: auth.NewTokenProvider(secret, true)})
	f.transport.connect("conn-a")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		DisplayName:      "alice",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"},
	}).SignedString([]byte(secret))
	req.NoError(err)

	// The token decides the name
	p, err := f.hub.Authenticate(context.Background(), "conn-a", models.AuthenticateRequest{DisplayName: "mallory", Token: token})
	req.NoError(err)
	req.Equal("alice", p.DisplayName)

	// And a connection without one stays anonymous
	f.transport.connect("conn-b")
	_, err = f.hub.Authenticate(context.Background(), "conn-b", models.AuthenticateRequest{DisplayName: "bob"})
	req.ErrorIs(err, models.ErrInvalidIdentity)
	req.Equal(1, f.sessions.Count())
}
