// Package store owns the in-memory room collections for both game types.
// It is not safe for concurrent use: every method must be called from the
// engine loop, which is the sole owner of all room state.
package store

import (
	"crypto/rand"
	"fmt"
	"time"

	"atobis/internal/model"
)

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SessionKey identifies a disconnected-but-recoverable session.
type SessionKey struct {
	Name     string
	RoomCode string
	GameType model.GameType
}

// Store holds the active rooms for both games, keyed by room code. Codes are
// drawn from a shared namespace so a code resolves to at most one room across
// both maps.
type Store struct {
	rooms    map[string]*model.Room
	spyRooms map[string]*model.SpyRoom

	// dropped holds advisory records of recently disconnected sessions; the
	// authoritative state is the player's Disconnected flag.
	dropped map[SessionKey]time.Time

	capacity    int
	graceWindow time.Duration
	idleTimeout time.Duration
	now         func() time.Time
}

// New creates an empty store.
func New(capacity int, graceWindow, idleTimeout time.Duration) *Store {
	return &Store{
		rooms:       make(map[string]*model.Room),
		spyRooms:    make(map[string]*model.SpyRoom),
		dropped:     make(map[SessionKey]time.Time),
		capacity:    capacity,
		graceWindow: graceWindow,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Capacity returns the per-room player cap.
func (s *Store) Capacity() int { return s.capacity }

// GenerateCode creates a 6-char alphanumeric code unused by either room map.
func (s *Store) GenerateCode() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, model.CodeLength)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, model.CodeLength)
		for i := range code {
			code[i] = codeChars[int(b[i])%len(codeChars)]
		}
		codeStr := string(code)
		if _, ok := s.rooms[codeStr]; ok {
			continue
		}
		if _, ok := s.spyRooms[codeStr]; ok {
			continue
		}
		return codeStr, nil
	}
	return "", fmt.Errorf("failed to generate unique room code")
}

// CreateRoom creates a word-category room with the given host already seated.
func (s *Store) CreateRoom(hostConnID, hostName string, categories []string) (*model.Room, error) {
	code, err := s.GenerateCode()
	if err != nil {
		return nil, err
	}
	room := &model.Room{
		Code:         code,
		HostID:       hostConnID,
		Players:      []*model.Player{{ID: hostConnID, Name: hostName, IsHost: true}},
		Categories:   append([]string(nil), categories...),
		UsedLetters:  []string{},
		TotalRounds:  5,
		RoundState:   model.RoundIdle,
		LastActivity: s.now(),
	}
	s.rooms[code] = room
	return room, nil
}

// CreateSpyRoom creates a spy room with the given host already seated.
func (s *Store) CreateSpyRoom(hostConnID, hostName string, categories []string) (*model.SpyRoom, error) {
	code, err := s.GenerateCode()
	if err != nil {
		return nil, err
	}
	room := &model.SpyRoom{
		Code:          code,
		HostID:        hostConnID,
		Players:       []*model.SpyPlayer{{ID: hostConnID, Name: hostName, IsHost: true}},
		TotalRounds:   5,
		TimerDuration: 120,
		SpyCount:      1,
		Categories:    append([]string(nil), categories...),
		UsedWords:     []string{},
		LastActivity:  s.now(),
	}
	s.spyRooms[code] = room
	return room, nil
}

// Room returns the word-category room with the given code, or nil.
func (s *Store) Room(code string) *model.Room { return s.rooms[code] }

// SpyRoom returns the spy room with the given code, or nil.
func (s *Store) SpyRoom(code string) *model.SpyRoom { return s.spyRooms[code] }

// Delete removes a room of either type. Grace-window records for its players
// are left in place so stale reconnect attempts fail cleanly.
func (s *Store) Delete(code string) {
	delete(s.rooms, code)
	delete(s.spyRooms, code)
}

// FindByConn locates the rooms holding a player bound to the given
// connection id. A connection may be seated in one room of each type, so
// both returns can be non-nil; a disconnect must reach both.
func (s *Store) FindByConn(connID string) (*model.Room, *model.SpyRoom) {
	var found *model.Room
	var foundSpy *model.SpyRoom
	for _, room := range s.rooms {
		if room.PlayerByID(connID) != nil {
			found = room
			break
		}
	}
	for _, room := range s.spyRooms {
		if room.PlayerByID(connID) != nil {
			foundSpy = room
			break
		}
	}
	return found, foundSpy
}

// RecordDropped remembers a disconnected session for the grace window.
func (s *Store) RecordDropped(name, code string, gt model.GameType) {
	s.dropped[SessionKey{Name: name, RoomCode: code, GameType: gt}] = s.now()
}

// TakeDropped consumes a disconnected-session record if present and fresh.
// Expiry is checked lazily here; the sweep handles the rest.
func (s *Store) TakeDropped(name, code string, gt model.GameType) bool {
	key := SessionKey{Name: name, RoomCode: code, GameType: gt}
	at, ok := s.dropped[key]
	if !ok {
		return false
	}
	delete(s.dropped, key)
	return s.now().Sub(at) <= s.graceWindow
}

// Sweep deletes rooms with zero active players or idle past the threshold,
// and purges expired dropped-session records. Returns the deleted codes.
func (s *Store) Sweep() []string {
	now := s.now()
	var deleted []string
	for code, room := range s.rooms {
		if len(room.ActivePlayers()) == 0 || now.Sub(room.LastActivity) > s.idleTimeout {
			delete(s.rooms, code)
			deleted = append(deleted, code)
		}
	}
	for code, room := range s.spyRooms {
		if len(room.ActivePlayers()) == 0 || now.Sub(room.LastActivity) > s.idleTimeout {
			delete(s.spyRooms, code)
			deleted = append(deleted, code)
		}
	}
	for key, at := range s.dropped {
		if now.Sub(at) > s.graceWindow {
			delete(s.dropped, key)
		}
	}
	return deleted
}

// Counts reports the number of active rooms per game type.
func (s *Store) Counts() (atobis, spy int) {
	return len(s.rooms), len(s.spyRooms)
}

// Rooms returns the word-category rooms, in map order.
func (s *Store) Rooms() []*model.Room {
	out := make([]*model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

// SpyRooms returns the spy rooms, in map order.
func (s *Store) SpyRooms() []*model.SpyRoom {
	out := make([]*model.SpyRoom, 0, len(s.spyRooms))
	for _, r := range s.spyRooms {
		out = append(out, r)
	}
	return out
}
