// Package game is the room lifecycle and round state-machine engine for both
// party games. All room state is mutated from a single goroutine draining an
// inbox of client messages, disconnect notices, and timer firings, so room
// handlers never need locks and barrier checks see a consistent roster.
package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"atobis/internal/model"
	"atobis/internal/ratelimit"
	"atobis/internal/store"
)

type eventKind int

const (
	kindMessage eventKind = iota
	kindDisconnect
	kindTimer
	kindStats
	kindShutdown
)

// timerEvent is a phase timer firing. Seq must still match the room's
// TimerSeq or the firing is stale and ignored.
type timerEvent struct {
	roomCode string
	phase    model.SpyPhase
	seq      uint64
}

type envelope struct {
	kind    eventKind
	connID  string
	event   string
	payload json.RawMessage
	timer   timerEvent
	stats   chan StatsReport
	done    chan struct{}
}

// wireMessage is the inbound frame shape.
type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Engine coordinates both game types over a shared store and broadcaster.
type Engine struct {
	store   *store.Store
	limiter *ratelimit.Ledger
	bc      Broadcaster
	inbox   chan envelope

	rng      *rand.Rand
	now      func() time.Time
	schedule func(d time.Duration, fn func())

	guessTimeout  time.Duration
	sweepInterval time.Duration
	limiterIdle   time.Duration

	log zerolog.Logger
}

// NewEngine creates the engine. Run must be called for it to process
// anything.
func NewEngine(st *store.Store, limiter *ratelimit.Ledger, bc Broadcaster, logger zerolog.Logger, guessTimeout, sweepInterval time.Duration) *Engine {
	return &Engine{
		store:         st,
		limiter:       limiter,
		bc:            bc,
		inbox:         make(chan envelope, 1024),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
		schedule:      func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		guessTimeout:  guessTimeout,
		sweepInterval: sweepInterval,
		limiterIdle:   10 * time.Minute,
		log:           logger,
	}
}

// Run drains the inbox until Shutdown. It is the only goroutine that touches
// room state.
func (e *Engine) Run() {
	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case env := <-e.inbox:
			if env.kind == kindShutdown {
				e.bc.ToAll(model.EvServerShutdown, model.ErrorPayload{Message: "السيرفر بيقفل، استنونا تاني!"})
				close(env.done)
				return
			}
			e.handle(env)
		case <-ticker.C:
			e.sweep()
		}
	}
}

// Submit decodes and enqueues a raw client frame. Called from transport
// read goroutines; over-limit and malformed frames are dropped here, before
// they reach the loop.
func (e *Engine) Submit(connID string, data []byte) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		e.log.Debug().Str("conn", connID).Msg("dropping malformed frame")
		return
	}
	if !e.limiter.Allow(connID, msg.Type) {
		e.log.Debug().Str("conn", connID).Str("event", msg.Type).Msg("rate limited")
		return
	}
	e.enqueue(envelope{kind: kindMessage, connID: connID, event: msg.Type, payload: msg.Payload})
}

// Disconnect notifies the engine that a connection dropped.
func (e *Engine) Disconnect(connID string) {
	e.limiter.Forget(connID)
	e.enqueue(envelope{kind: kindDisconnect, connID: connID})
}

// Stats requests a diagnostic report from the loop.
func (e *Engine) Stats(ctx context.Context) (StatsReport, error) {
	ch := make(chan StatsReport, 1)
	select {
	case e.inbox <- envelope{kind: kindStats, stats: ch}:
	case <-ctx.Done():
		return StatsReport{}, ctx.Err()
	}
	select {
	case report := <-ch:
		return report, nil
	case <-ctx.Done():
		return StatsReport{}, ctx.Err()
	}
}

// Shutdown broadcasts the shutdown notice and stops the loop.
func (e *Engine) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case e.inbox <- envelope{kind: kindShutdown, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) enqueue(env envelope) {
	if env.kind == kindDisconnect {
		// A lost disconnect leaves a ghost active player wedging barriers
		// until the idle sweep. These are rare, so wait for room.
		e.inbox <- env
		return
	}
	select {
	case e.inbox <- env:
	default:
		e.log.Warn().Str("event", env.event).Msg("engine inbox full, dropping event")
	}
}

// handle processes one event to completion. A panicking handler must not
// take the whole process down: every active room lives in this process only.
func (e *Engine) handle(env envelope) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("event", env.event).Msg("recovered in engine handler")
		}
	}()

	switch env.kind {
	case kindMessage:
		e.dispatch(env.connID, env.event, env.payload)
	case kindDisconnect:
		e.handleDisconnect(env.connID)
	case kindTimer:
		e.handleTimer(env.timer)
	case kindStats:
		env.stats <- e.buildStats()
	}
}

// dispatch validates the payload shape and routes to the state-transition
// handler for the event.
func (e *Engine) dispatch(connID, event string, payload json.RawMessage) {
	decode := func(v any) bool {
		if err := json.Unmarshal(payload, v); err != nil {
			e.errorTo(connID, msgBadRequest)
			return false
		}
		return true
	}

	switch event {
	case model.EvCreateRoom:
		var p model.CreateRoomPayload
		if decode(&p) {
			e.handleCreateRoom(connID, p)
		}
	case model.EvJoinRoom:
		var p model.JoinRoomPayload
		if decode(&p) {
			e.handleJoinRoom(connID, p)
		}
	case model.EvStartGame:
		var p model.StartGamePayload
		if decode(&p) {
			e.handleStartGame(connID, p)
		}
	case model.EvSelectLetter:
		var p model.SelectLetterPayload
		if decode(&p) {
			e.handleSelectLetter(connID, p)
		}
	case model.EvFinishRound:
		var p model.AnswersPayload
		if decode(&p) {
			e.handleFinishRound(connID, p)
		}
	case model.EvSubmitAnswers:
		var p model.AnswersPayload
		if decode(&p) {
			e.handleSubmitAnswers(connID, p)
		}
	case model.EvUpdateScore:
		var p model.UpdateScorePayload
		if decode(&p) {
			e.handleUpdateScore(connID, p)
		}
	case model.EvAdvanceRound:
		var p model.RoomOnlyPayload
		if decode(&p) {
			e.handleAdvanceRound(connID, p)
		}
	case model.EvPlayAgain:
		var p model.RoomOnlyPayload
		if decode(&p) {
			e.handlePlayAgain(connID, p)
		}
	case model.EvSpyConfirmRole:
		var p model.RoomOnlyPayload
		if decode(&p) {
			e.handleSpyConfirm(connID, p)
		}
	case model.EvSpySubmitVote:
		var p model.VotePayload
		if decode(&p) {
			e.handleSpyVote(connID, p)
		}
	case model.EvSpySubmitGuess:
		var p model.GuessPayload
		if decode(&p) {
			e.handleSpyGuess(connID, p)
		}
	case model.EvSpyNextRound:
		var p model.RoomOnlyPayload
		if decode(&p) {
			e.handleSpyNextRound(connID, p)
		}
	case model.EvAttemptReconnect:
		var p model.ReconnectPayload
		if decode(&p) {
			e.handleReconnect(connID, p)
		}
	default:
		e.log.Debug().Str("event", event).Msg("unknown event")
	}
}

func (e *Engine) errorTo(connID, message string) {
	e.bc.ToConn(connID, model.EvError, model.ErrorPayload{Message: message})
}

// armSpyTimer schedules a phase timer for a spy room. The sequence snapshot
// makes the firing a no-op if the room has advanced in the meantime.
func (e *Engine) armSpyTimer(room *model.SpyRoom, phase model.SpyPhase, d time.Duration) {
	room.TimerSeq++
	te := timerEvent{roomCode: room.Code, phase: phase, seq: room.TimerSeq}
	e.schedule(d, func() {
		e.enqueue(envelope{kind: kindTimer, timer: te})
	})
}

func (e *Engine) handleTimer(te timerEvent) {
	room := e.store.SpyRoom(te.roomCode)
	if room == nil || room.TimerSeq != te.seq || room.Phase != te.phase {
		return
	}
	switch te.phase {
	case model.SpyDiscussion:
		e.startVoting(room)
	case model.SpyGuessing:
		// No spy answered in time: resolve as an incorrect guess.
		e.resolveSpyRound(room, true, false)
	}
}

func (e *Engine) sweep() {
	deleted := e.store.Sweep()
	for _, code := range deleted {
		e.bc.CloseRoom(code)
		e.log.Info().Str("room", code).Msg("room swept")
	}
	e.limiter.Sweep(e.limiterIdle)
}
