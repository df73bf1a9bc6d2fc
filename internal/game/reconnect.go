package game

import (
	"atobis/internal/model"
	"atobis/internal/words"

	"github.com/samber/lo"
)

// handleReconnect rehydrates a dropped session: the durable identity is the
// player name within the room, the connection id is rebound. On success the
// client gets a phase-specific snapshot; on failure it starts fresh — the
// server never retries.
func (e *Engine) handleReconnect(connID string, p model.ReconnectPayload) {
	fail := func() {
		e.bc.ToConn(connID, model.EvReconnectFailed, model.ErrorPayload{Message: msgReconnectFail})
	}

	name := model.SanitizeName(p.Name)
	code, ok := model.SanitizeCode(p.RoomCode)
	if name == "" || !ok {
		fail()
		return
	}

	switch p.GameType {
	case model.GameSpy:
		room := e.store.SpyRoom(code)
		if room == nil {
			fail()
			return
		}
		player := room.PlayerByName(name)
		if player == nil || !player.Disconnected || !e.store.TakeDropped(name, code, model.GameSpy) {
			fail()
			return
		}
		e.rebindSpyPlayer(room, player, connID)
		e.bc.JoinRoom(connID, code)
		e.bc.ToRoom(code, model.EvPlayerReconnected, model.PlayerReconnectedPayload{Players: room.Players, Name: name})
		e.bc.ToConn(connID, model.EvReconnectSuccess, e.spySnapshot(room, player))
		e.log.Info().Str("room", code).Str("player", name).Msg("spy player reconnected")

	case model.GameAtobis, "":
		room := e.store.Room(code)
		if room == nil {
			fail()
			return
		}
		player := room.PlayerByName(name)
		if player == nil || !player.Disconnected || !e.store.TakeDropped(name, code, model.GameAtobis) {
			fail()
			return
		}
		player.ID = connID
		player.Disconnected = false
		if player.IsHost {
			room.HostID = connID
		}
		room.LastActivity = e.now()
		e.bc.JoinRoom(connID, code)
		e.bc.ToRoom(code, model.EvPlayerReconnected, model.PlayerReconnectedPayload{Players: room.Players, Name: name})
		e.bc.ToConn(connID, model.EvReconnectSuccess, e.atobisSnapshot(room, player))
		e.log.Info().Str("room", code).Str("player", name).Msg("player reconnected")

	default:
		fail()
	}
}

// rebindSpyPlayer swaps the player's connection id everywhere it is
// referenced: the roster entry, the spy set, other players' votes, and the
// host pointer.
func (e *Engine) rebindSpyPlayer(room *model.SpyRoom, player *model.SpyPlayer, connID string) {
	old := player.ID
	player.ID = connID
	player.Disconnected = false
	if player.IsHost {
		room.HostID = connID
	}
	room.SpyIDs = lo.Map(room.SpyIDs, func(id string, _ int) string {
		if id == old {
			return connID
		}
		return id
	})
	for _, other := range room.Players {
		if other.VotedFor == old {
			other.VotedFor = connID
		}
	}
	room.LastActivity = e.now()
}

func (e *Engine) atobisSnapshot(room *model.Room, player *model.Player) model.ReconnectSnapshot {
	snap := model.ReconnectSnapshot{
		RoomCode:   room.Code,
		GameType:   model.GameAtobis,
		PlayerID:   player.ID,
		IsHost:     player.IsHost,
		GameActive: room.GameActive,
		ServerTime: e.now().UnixMilli(),
		Atobis: &model.AtobisSnapshot{
			Players:       room.Players,
			RoundState:    room.RoundState,
			CurrentRound:  room.CurrentRound,
			TotalRounds:   room.TotalRounds,
			CurrentLetter: room.CurrentLetter,
			Categories:    room.Categories,
			UsedLetters:   room.UsedLetters,
			OwnAnswers:    player.Answers,
			HasSubmitted:  player.HasSubmitted,
		},
	}
	if room.GameActive && room.RoundState == model.RoundPlaying {
		snap.Atobis.RoundStart = room.RoundStartedAt.UnixMilli()
	}
	return snap
}

func (e *Engine) spySnapshot(room *model.SpyRoom, player *model.SpyPlayer) model.ReconnectSnapshot {
	active := room.ActivePlayers()
	spy := &model.SpySnapshot{
		Players:       room.Players,
		Phase:         room.Phase,
		CurrentRound:  room.CurrentRound,
		TotalRounds:   room.TotalRounds,
		TimerDuration: room.TimerDuration,
		Confirmed:     lo.CountBy(active, func(p *model.SpyPlayer) bool { return p.Confirmed }),
		Voted:         lo.CountBy(active, func(p *model.SpyPlayer) bool { return p.Voted }),
		HasConfirmed:  player.Confirmed,
		HasVoted:      player.Voted,
	}

	if room.GameActive && room.Phase != "" {
		spy.IsSpy = player.IsSpy
		spy.Category = room.CurrentCategory
		spy.CategoryLabel = words.Label(room.CurrentCategory)
		if !player.IsSpy {
			spy.Word = room.CurrentWord
		}
	}

	if room.Phase == model.SpyDiscussion {
		// Remaining time comes from the server-recorded phase start, not a
		// client-side elapsed guess.
		elapsed := int(e.now().Sub(room.DiscussionStartedAt).Seconds())
		remaining := room.TimerDuration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		spy.RemainingSeconds = remaining
	}

	if room.Phase == model.SpyGuessing && player.IsSpy {
		spy.GuessOptions = room.GuessOptions
	}

	return model.ReconnectSnapshot{
		RoomCode:   room.Code,
		GameType:   model.GameSpy,
		PlayerID:   player.ID,
		IsHost:     player.IsHost,
		GameActive: room.GameActive,
		ServerTime: e.now().UnixMilli(),
		Spy:        spy,
	}
}
