package services

import (
	"slices"
	"sync"

	"github.com/adi-253/chathub/internal/models"
	"github.com/samber/lo"
)

// RoomDirectory tracks known rooms and their members.
// Rooms are created on first join and are never deleted, even when they become empty.
type RoomDirectory struct {
	// rooms maps a room name to its member session ids
	rooms map[string]map[string]struct{}

	defaultRoom string

	mu sync.RWMutex
}

// NewRoomDirectory creates a directory that already contains the default room.
func NewRoomDirectory(defaultRoom string) *RoomDirectory {
	return &RoomDirectory{
		rooms:       map[string]map[string]struct{}{defaultRoom: {}},
		defaultRoom: defaultRoom,
	}
}

// DefaultRoom returns the name of the room every participant starts in
func (d *RoomDirectory) DefaultRoom() string {
	return d.defaultRoom
}

// Ensure returns the named room, creating it if needed.
func (d *RoomDirectory) Ensure(name string) models.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshotRoom(name, d.ensureLocked(name))
}

func (d *RoomDirectory) ensureLocked(name string) map[string]struct{} {
	members, ok := d.rooms[name]
	if !ok {
		members = make(map[string]struct{})
		d.rooms[name] = members
	}
	return members
}

// Join adds a member to a room, creating the room on first use.
// It returns true when the room did not exist before.
func (d *RoomDirectory) Join(sessionID, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, existed := d.rooms[name]
	d.ensureLocked(name)[sessionID] = struct{}{}
	return !existed
}

// Leave removes a member from a room and reports whether it was a member.
func (d *RoomDirectory) Leave(sessionID, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[name]
	if !ok {
		return false
	}
	if _, member := members[sessionID]; !member {
		return false
	}
	delete(members, sessionID)
	return true
}

// LeaveAll removes a member from every room and returns the rooms it left.
func (d *RoomDirectory) LeaveAll(sessionID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var left []string
	for name, members := range d.rooms {
		if _, ok := members[sessionID]; ok {
			delete(members, sessionID)
			left = append(left, name)
		}
	}
	slices.Sort(left)
	return left
}

// Members returns the session ids joined to a room
func (d *RoomDirectory) Members(name string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.Keys(d.rooms[name])
}

// IsMember reports whether the session has joined the room
func (d *RoomDirectory) IsMember(sessionID, name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[name][sessionID]
	return ok
}

// Exists reports whether the room has been created
func (d *RoomDirectory) Exists(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[name]
	return ok
}

// ListRooms returns every room name, sorted
func (d *RoomDirectory) ListRooms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := lo.Keys(d.rooms)
	slices.Sort(names)
	return names
}

func snapshotRoom(name string, members map[string]struct{}) models.Room {
	ids := lo.Keys(members)
	slices.Sort(ids)
	return models.Room{Name: name, Members: ids}
}
