package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atobis/internal/model"
)

func newTestStore() *Store {
	return New(20, 2*time.Minute, 30*time.Minute)
}

func TestGenerateCode(t *testing.T) {
	s := newTestStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := s.GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90, "codes should rarely collide")
}

func TestCodesShareOneNamespace(t *testing.T) {
	s := newTestStore()

	room, err := s.CreateRoom("c0", "حسام", []string{"boy", "girl", "animal"})
	require.NoError(t, err)
	spyRoom, err := s.CreateSpyRoom("s0", "سارة", []string{"animal"})
	require.NoError(t, err)
	require.NotEqual(t, room.Code, spyRoom.Code)

	// Delete works regardless of which map holds the code.
	s.Delete(room.Code)
	s.Delete(spyRoom.Code)
	assert.Nil(t, s.Room(room.Code))
	assert.Nil(t, s.SpyRoom(spyRoom.Code))
}

func TestCreateRoomSeatsHostWithDefaults(t *testing.T) {
	s := newTestStore()

	room, err := s.CreateRoom("c0", "حسام", []string{"boy", "girl", "animal"})
	require.NoError(t, err)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.Equal(t, "c0", room.HostID)
	assert.Equal(t, 5, room.TotalRounds)
	assert.Equal(t, model.RoundIdle, room.RoundState)

	spyRoom, err := s.CreateSpyRoom("s0", "سارة", []string{"animal"})
	require.NoError(t, err)
	assert.Equal(t, 120, spyRoom.TimerDuration)
	assert.Equal(t, 1, spyRoom.SpyCount)
}

func TestFindByConn(t *testing.T) {
	s := newTestStore()
	room, _ := s.CreateRoom("c0", "حسام", []string{"boy", "girl", "animal"})
	spyRoom, _ := s.CreateSpyRoom("s0", "سارة", []string{"animal"})

	found, foundSpy := s.FindByConn("c0")
	assert.Equal(t, room, found)
	assert.Nil(t, foundSpy)

	found, foundSpy = s.FindByConn("s0")
	assert.Nil(t, found)
	assert.Equal(t, spyRoom, foundSpy)

	found, foundSpy = s.FindByConn("ghost")
	assert.Nil(t, found)
	assert.Nil(t, foundSpy)
}

func TestFindByConnSeatedInBothRoomTypes(t *testing.T) {
	s := newTestStore()
	room, _ := s.CreateRoom("x0", "حسام", []string{"boy", "girl", "animal"})
	spyRoom, _ := s.CreateSpyRoom("x0", "حسام", []string{"animal"})

	found, foundSpy := s.FindByConn("x0")
	assert.Equal(t, room, found)
	assert.Equal(t, spyRoom, foundSpy)
}

func TestTakeDroppedConsumesRecord(t *testing.T) {
	s := newTestStore()

	s.RecordDropped("حسام", "ABC123", model.GameAtobis)
	assert.True(t, s.TakeDropped("حسام", "ABC123", model.GameAtobis))
	assert.False(t, s.TakeDropped("حسام", "ABC123", model.GameAtobis), "records are single use")

	// The game type is part of the key.
	s.RecordDropped("حسام", "ABC123", model.GameAtobis)
	assert.False(t, s.TakeDropped("حسام", "ABC123", model.GameSpy))
}

func TestTakeDroppedExpires(t *testing.T) {
	s := newTestStore()
	base := time.Now()
	s.SetClock(func() time.Time { return base })

	s.RecordDropped("حسام", "ABC123", model.GameAtobis)
	s.SetClock(func() time.Time { return base.Add(3 * time.Minute) })
	assert.False(t, s.TakeDropped("حسام", "ABC123", model.GameAtobis))
}

func TestSweepRemovesDeadAndIdleRooms(t *testing.T) {
	s := newTestStore()
	base := time.Now()
	s.SetClock(func() time.Time { return base })

	empty, _ := s.CreateRoom("c0", "حسام", []string{"boy", "girl", "animal"})
	empty.Players[0].Disconnected = true

	idle, _ := s.CreateSpyRoom("s0", "سارة", []string{"animal"})
	live, _ := s.CreateRoom("c1", "منى", []string{"boy", "girl", "animal"})

	s.SetClock(func() time.Time { return base.Add(31 * time.Minute) })
	live.LastActivity = s.now()

	deleted := s.Sweep()
	assert.ElementsMatch(t, []string{empty.Code, idle.Code}, deleted)
	assert.Nil(t, s.Room(empty.Code))
	assert.Nil(t, s.SpyRoom(idle.Code))
	assert.NotNil(t, s.Room(live.Code))
}

func TestSweepPurgesExpiredDroppedRecords(t *testing.T) {
	s := newTestStore()
	base := time.Now()
	s.SetClock(func() time.Time { return base })

	s.RecordDropped("قديم", "ABC123", model.GameAtobis)
	s.SetClock(func() time.Time { return base.Add(90 * time.Second) })
	s.RecordDropped("جديد", "ABC123", model.GameAtobis)

	s.SetClock(func() time.Time { return base.Add(150 * time.Second) })
	s.Sweep()

	assert.False(t, s.TakeDropped("قديم", "ABC123", model.GameAtobis))
	assert.True(t, s.TakeDropped("جديد", "ABC123", model.GameAtobis))
}
