package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"atobis/internal/model"
	"atobis/internal/ratelimit"
	"atobis/internal/store"
)

// recorder captures broadcasts in place of the ws hub.
type recorder struct {
	events []recordedEvent
	joins  []string
	leaves []string
	closed []string
}

type recordedEvent struct {
	target  string // "room:CODE", "conn:ID", or "all"
	event   string
	payload any
}

func (r *recorder) ToRoom(code, event string, payload any) {
	r.events = append(r.events, recordedEvent{target: "room:" + code, event: event, payload: payload})
}

func (r *recorder) ToConn(connID, event string, payload any) {
	r.events = append(r.events, recordedEvent{target: "conn:" + connID, event: event, payload: payload})
}

func (r *recorder) ToAll(event string, payload any) {
	r.events = append(r.events, recordedEvent{target: "all", event: event, payload: payload})
}

func (r *recorder) JoinRoom(connID, code string)  { r.joins = append(r.joins, connID+"@"+code) }
func (r *recorder) LeaveRoom(connID, code string) { r.leaves = append(r.leaves, connID+"@"+code) }
func (r *recorder) CloseRoom(code string)         { r.closed = append(r.closed, code) }

func (r *recorder) last(event string) *recordedEvent {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].event == event {
			return &r.events[i]
		}
	}
	return nil
}

func (r *recorder) all(event string) []recordedEvent {
	var out []recordedEvent
	for _, ev := range r.events {
		if ev.event == event {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

// testTimers captures scheduled callbacks so tests fire them manually.
type testTimers struct {
	pending []func()
}

func (t *testTimers) fireAll(e *Engine) {
	fns := t.pending
	t.pending = nil
	for _, fn := range fns {
		fn()
	}
	drain(e)
}

// drain processes everything the timers enqueued, since no Run loop is
// running in tests.
func drain(e *Engine) {
	for {
		select {
		case env := <-e.inbox:
			e.handle(env)
		default:
			return
		}
	}
}

func newTestEngine(t *testing.T) (*Engine, *recorder, *testTimers) {
	t.Helper()
	st := store.New(20, 2*time.Minute, 30*time.Minute)
	rec := &recorder{}
	timers := &testTimers{}

	e := NewEngine(st, ratelimit.New(1000, 1000), rec, zerolog.Nop(), 30*time.Second, time.Minute)
	e.rng = rand.New(rand.NewSource(7))
	e.schedule = func(d time.Duration, fn func()) {
		timers.pending = append(timers.pending, fn)
	}
	return e, rec, timers
}

// makeAtobisRoom creates a word-category room with the host plus n-1 joiners
// on connection ids c0..c{n-1}.
func makeAtobisRoom(t *testing.T, e *Engine, rec *recorder, n int) (code string, conns []string) {
	t.Helper()
	e.handleCreateRoom("c0", model.CreateRoomPayload{Name: "لاعب0", GameType: model.GameAtobis})
	created := rec.last(model.EvRoomCreated)
	require.NotNil(t, created)
	code = created.payload.(model.RoomCreatedPayload).RoomCode
	conns = []string{"c0"}
	for i := 1; i < n; i++ {
		conn := fmt.Sprintf("c%d", i)
		e.handleJoinRoom(conn, model.JoinRoomPayload{RoomCode: code, Name: fmt.Sprintf("لاعب%d", i), GameType: model.GameAtobis})
		conns = append(conns, conn)
	}
	require.Len(t, e.store.Room(code).Players, n)
	return code, conns
}

// makeSpyRoom creates a spy room with the host plus n-1 joiners.
func makeSpyRoom(t *testing.T, e *Engine, rec *recorder, n int) (code string, conns []string) {
	t.Helper()
	e.handleCreateRoom("s0", model.CreateRoomPayload{Name: "لاعب0", GameType: model.GameSpy})
	created := rec.last(model.EvRoomCreated)
	require.NotNil(t, created)
	code = created.payload.(model.SpyRoomCreatedPayload).RoomCode
	conns = []string{"s0"}
	for i := 1; i < n; i++ {
		conn := fmt.Sprintf("s%d", i)
		e.handleJoinRoom(conn, model.JoinRoomPayload{RoomCode: code, Name: fmt.Sprintf("لاعب%d", i), GameType: model.GameSpy})
		conns = append(conns, conn)
	}
	require.Len(t, e.store.SpyRoom(code).Players, n)
	return code, conns
}
