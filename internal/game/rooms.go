package game

import (
	"sort"

	"atobis/internal/model"
	"atobis/internal/words"
)

func (e *Engine) handleCreateRoom(connID string, p model.CreateRoomPayload) {
	name := model.SanitizeName(p.Name)
	if name == "" {
		e.errorTo(connID, msgInvalidName)
		return
	}

	switch p.GameType {
	case model.GameSpy:
		room, err := e.store.CreateSpyRoom(connID, name, words.DefaultSpyCategories)
		if err != nil {
			e.log.Error().Err(err).Msg("create spy room")
			e.errorTo(connID, msgBadRequest)
			return
		}
		e.bc.JoinRoom(connID, room.Code)
		e.bc.ToConn(connID, model.EvRoomCreated, model.SpyRoomCreatedPayload{
			RoomCode: room.Code,
			GameType: model.GameSpy,
			Players:  room.Players,
		})
		e.log.Info().Str("room", room.Code).Str("host", name).Msg("spy room created")

	case model.GameAtobis, "":
		room, err := e.store.CreateRoom(connID, name, words.DefaultCategories)
		if err != nil {
			e.log.Error().Err(err).Msg("create room")
			e.errorTo(connID, msgBadRequest)
			return
		}
		e.bc.JoinRoom(connID, room.Code)
		e.bc.ToConn(connID, model.EvRoomCreated, model.RoomCreatedPayload{
			RoomCode:    room.Code,
			GameType:    model.GameAtobis,
			Players:     room.Players,
			UsedLetters: room.UsedLetters,
		})
		e.log.Info().Str("room", room.Code).Str("host", name).Msg("room created")

	default:
		e.errorTo(connID, msgBadRequest)
	}
}

func (e *Engine) handleJoinRoom(connID string, p model.JoinRoomPayload) {
	name := model.SanitizeName(p.Name)
	if name == "" {
		e.errorTo(connID, msgInvalidName)
		return
	}
	code, ok := model.SanitizeCode(p.RoomCode)
	if !ok {
		e.errorTo(connID, msgInvalidCode)
		return
	}

	switch p.GameType {
	case model.GameSpy:
		room := e.store.SpyRoom(code)
		if room == nil {
			e.errorTo(connID, msgRoomNotFound)
			return
		}
		if room.GameActive {
			e.errorTo(connID, msgGameInProgress)
			return
		}
		if len(room.Players) >= e.store.Capacity() {
			e.errorTo(connID, msgRoomFull)
			return
		}
		if room.PlayerByName(name) != nil {
			e.errorTo(connID, msgNameTaken)
			return
		}
		room.Players = append(room.Players, &model.SpyPlayer{ID: connID, Name: name})
		room.LastActivity = e.now()
		e.bc.JoinRoom(connID, code)
		e.bc.ToRoom(code, model.EvPlayerJoined, model.PlayerJoinedPayload{Players: room.Players, NewPlayer: name})
		e.bc.ToConn(connID, model.EvRoomJoined, model.SpyRoomJoinedPayload{
			RoomCode: room.Code,
			GameType: model.GameSpy,
			Players:  room.Players,
		})
		e.log.Info().Str("room", code).Str("player", name).Msg("joined spy room")

	case model.GameAtobis, "":
		room := e.store.Room(code)
		if room == nil {
			e.errorTo(connID, msgRoomNotFound)
			return
		}
		if len(room.Players) >= e.store.Capacity() {
			e.errorTo(connID, msgRoomFull)
			return
		}
		if room.PlayerByName(name) != nil {
			e.errorTo(connID, msgNameTaken)
			return
		}
		player := &model.Player{ID: connID, Name: name}
		if room.GameActive {
			player.ResetRound(room.Categories)
		}
		room.Players = append(room.Players, player)
		room.LastActivity = e.now()
		e.bc.JoinRoom(connID, code)
		e.bc.ToRoom(code, model.EvPlayerJoined, model.PlayerJoinedPayload{Players: room.Players, NewPlayer: name})
		e.bc.ToConn(connID, model.EvRoomJoined, model.RoomJoinedPayload{
			RoomCode:      room.Code,
			GameType:      model.GameAtobis,
			Players:       room.Players,
			UsedLetters:   room.UsedLetters,
			CurrentLetter: room.CurrentLetter,
			GameActive:    room.GameActive,
			Categories:    room.Categories,
		})
		e.log.Info().Str("room", code).Str("player", name).Msg("joined room")

	default:
		e.errorTo(connID, msgBadRequest)
	}
}

// handleStartGame routes the shared start-game event to whichever engine owns
// the room code.
func (e *Engine) handleStartGame(connID string, p model.StartGamePayload) {
	code, ok := model.SanitizeCode(p.RoomCode)
	if !ok {
		e.errorTo(connID, msgInvalidCode)
		return
	}
	if room := e.store.Room(code); room != nil {
		e.startAtobisGame(connID, room, p)
		return
	}
	if room := e.store.SpyRoom(code); room != nil {
		e.startSpyGame(connID, room, p)
		return
	}
	e.errorTo(connID, msgRoomNotFound)
}

// handleDisconnect marks the player disconnected in whichever room holds the
// connection, migrates the host if needed, and re-runs the phase checks so a
// vanished player cannot wedge a round.
func (e *Engine) handleDisconnect(connID string) {
	room, spyRoom := e.store.FindByConn(connID)
	if room != nil {
		e.dropFromRoom(room, connID)
	}
	if spyRoom != nil {
		e.dropFromSpyRoom(spyRoom, connID)
	}
}

func (e *Engine) dropFromRoom(room *model.Room, connID string) {
	p := room.PlayerByID(connID)
	p.Disconnected = true
	e.store.RecordDropped(p.Name, room.Code, model.GameAtobis)
	e.bc.LeaveRoom(connID, room.Code)

	active := room.ActivePlayers()
	if len(active) == 0 {
		e.store.Delete(room.Code)
		e.bc.CloseRoom(room.Code)
		e.log.Info().Str("room", room.Code).Msg("room deleted, last player left")
		return
	}

	if p.IsHost {
		p.IsHost = false
		newHost := active[0]
		newHost.IsHost = true
		room.HostID = newHost.ID
		e.bc.ToRoom(room.Code, model.EvHostChanged, model.HostChangedPayload{
			HostID:   newHost.ID,
			HostName: newHost.Name,
			Players:  room.Players,
		})
		e.log.Info().Str("room", room.Code).Str("host", newHost.Name).Msg("host migrated")
	}

	e.bc.ToRoom(room.Code, model.EvPlayerLeft, model.PlayerLeftPayload{Players: room.Players})
	room.LastActivity = e.now()

	if room.GameActive && room.RoundState != model.RoundIdle {
		e.maybeFinishSubmissions(room)
	}
}

func (e *Engine) dropFromSpyRoom(room *model.SpyRoom, connID string) {
	p := room.PlayerByID(connID)
	p.Disconnected = true
	e.store.RecordDropped(p.Name, room.Code, model.GameSpy)
	e.bc.LeaveRoom(connID, room.Code)

	active := room.ActivePlayers()
	if len(active) == 0 {
		e.store.Delete(room.Code)
		e.bc.CloseRoom(room.Code)
		e.log.Info().Str("room", room.Code).Msg("spy room deleted, last player left")
		return
	}

	if p.IsHost {
		p.IsHost = false
		newHost := active[0]
		newHost.IsHost = true
		room.HostID = newHost.ID
		e.bc.ToRoom(room.Code, model.EvHostChanged, model.HostChangedPayload{
			HostID:   newHost.ID,
			HostName: newHost.Name,
			Players:  room.Players,
		})
		e.log.Info().Str("room", room.Code).Str("host", newHost.Name).Msg("spy host migrated")
	}

	e.bc.ToRoom(room.Code, model.EvPlayerLeft, model.PlayerLeftPayload{Players: room.Players})
	room.LastActivity = e.now()

	if !room.GameActive {
		return
	}
	switch room.Phase {
	case model.SpyRoleReveal:
		e.maybeAllConfirmed(room)
	case model.SpyVoting:
		e.maybeAllVoted(room)
	case model.SpyGuessing:
		// A silent, departed spy must not stall the round.
		if !e.anyActiveSpy(room) {
			e.resolveSpyRound(room, true, false)
		}
	}
}

// RoomSummary is one room in the diagnostics report.
type RoomSummary struct {
	Code        string   `json:"code"`
	Players     int      `json:"players"`
	Active      int      `json:"active"`
	GameActive  bool     `json:"gameActive"`
	Categories  []string `json:"categories,omitempty"`
	Round       int      `json:"round,omitempty"`
	TotalRounds int      `json:"totalRounds,omitempty"`
}

// StatsReport is the aggregate diagnostics payload.
type StatsReport struct {
	TotalAtobisRooms int           `json:"totalAtobisRooms"`
	TotalSpyRooms    int           `json:"totalSpyRooms"`
	AtobisRooms      []RoomSummary `json:"atobisRooms"`
	SpyRooms         []RoomSummary `json:"spyRooms"`
}

func (e *Engine) buildStats() StatsReport {
	atobisCount, spyCount := e.store.Counts()
	report := StatsReport{
		TotalAtobisRooms: atobisCount,
		TotalSpyRooms:    spyCount,
		AtobisRooms:      make([]RoomSummary, 0, atobisCount),
		SpyRooms:         make([]RoomSummary, 0, spyCount),
	}
	for _, room := range e.store.Rooms() {
		report.AtobisRooms = append(report.AtobisRooms, RoomSummary{
			Code:       room.Code,
			Players:    len(room.Players),
			Active:     len(room.ActivePlayers()),
			GameActive: room.GameActive,
			Categories: room.Categories,
		})
	}
	for _, room := range e.store.SpyRooms() {
		report.SpyRooms = append(report.SpyRooms, RoomSummary{
			Code:        room.Code,
			Players:     len(room.Players),
			Active:      len(room.ActivePlayers()),
			GameActive:  room.GameActive,
			Round:       room.CurrentRound,
			TotalRounds: room.TotalRounds,
		})
	}
	sort.Slice(report.AtobisRooms, func(i, j int) bool {
		return report.AtobisRooms[i].Code < report.AtobisRooms[j].Code
	})
	sort.Slice(report.SpyRooms, func(i, j int) bool {
		return report.SpyRooms[i].Code < report.SpyRooms[j].Code
	})
	return report
}
