package game

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"atobis/internal/model"
	"atobis/internal/words"
)

const (
	minSpyPlayers = 3
	minTimer      = 30
	maxTimer      = 600
	maxDecoys     = 5
)

func (e *Engine) startSpyGame(connID string, room *model.SpyRoom, p model.StartGamePayload) {
	if room.HostID != connID {
		return
	}
	active := room.ActivePlayers()
	if len(active) < minSpyPlayers {
		e.errorTo(connID, msgNeedPlayers)
		return
	}

	rounds := p.TotalRounds
	if rounds == 0 {
		rounds = 5
	}
	timer := p.TimerDuration
	if timer == 0 {
		timer = 120
	}
	spies := p.SpyCount
	if spies == 0 {
		spies = 1
	}
	if rounds < minRounds || rounds > maxRounds || timer < minTimer || timer > maxTimer || spies < 1 {
		e.errorTo(connID, msgBadConfig)
		return
	}
	if spies > len(active)-1 {
		spies = len(active) - 1
	}

	if len(p.Categories) > 0 {
		valid := words.ValidSpyCategories(p.Categories)
		if len(valid) == 0 {
			e.errorTo(connID, msgBadConfig)
			return
		}
		room.Categories = valid
	}

	room.TotalRounds = rounds
	room.TimerDuration = timer
	room.SpyCount = spies
	room.CurrentRound = 0
	room.GameActive = true
	for _, player := range room.Players {
		player.TotalScore = 0
	}

	e.startSpyRound(room)
}

// startSpyRound draws a fresh word, assigns spies among active players, and
// privately reveals roles: spies learn the category only, everyone else gets
// the word too.
func (e *Engine) startSpyRound(room *model.SpyRoom) {
	room.CurrentRound++
	room.Phase = model.SpyRoleReveal
	room.TimerSeq++ // invalidate any timer from the previous round
	room.GuessOptions = nil
	room.LastActivity = e.now()

	category, word, recycled := words.Pick(e.rng, room.Categories, room.UsedWords)
	if recycled != nil {
		room.UsedWords = lo.Filter(room.UsedWords, func(w string, _ int) bool {
			return !lo.Contains(recycled, w)
		})
	}
	room.UsedWords = append(room.UsedWords, word)
	room.CurrentWord = word
	room.CurrentCategory = category

	active := room.ActivePlayers()
	spyCount := room.SpyCount
	if spyCount > len(active)-1 {
		spyCount = len(active) - 1
	}
	ids := lo.Map(active, func(p *model.SpyPlayer, _ int) string { return p.ID })
	e.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	room.SpyIDs = append([]string(nil), ids[:spyCount]...)

	for _, player := range room.Players {
		player.ResetRound()
		player.IsSpy = room.IsSpyID(player.ID)
	}

	for _, player := range active {
		payload := model.SpyRoundStartedPayload{
			Round:         room.CurrentRound,
			TotalRounds:   room.TotalRounds,
			IsSpy:         player.IsSpy,
			Category:      category,
			CategoryLabel: words.Label(category),
			TimerDuration: room.TimerDuration,
		}
		if !player.IsSpy {
			payload.Word = word
		}
		e.bc.ToConn(player.ID, model.EvSpyRoundStarted, payload)
	}

	e.log.Info().Str("room", room.Code).Int("round", room.CurrentRound).
		Str("category", category).Int("spies", spyCount).Msg("spy round started")
}

func (e *Engine) handleSpyConfirm(connID string, p model.RoomOnlyPayload) {
	room := e.spyRoom(connID, p.RoomCode)
	if room == nil || room.Phase != model.SpyRoleReveal {
		return
	}
	player := room.PlayerByID(connID)
	if player == nil || player.Disconnected {
		return
	}

	player.Confirmed = true
	room.LastActivity = e.now()

	active := room.ActivePlayers()
	confirmed := lo.CountBy(active, func(p *model.SpyPlayer) bool { return p.Confirmed })
	e.bc.ToRoom(room.Code, model.EvSpyConfirmUpdate, model.SpyCounterPayload{Done: confirmed, Total: len(active)})

	e.maybeAllConfirmed(room)
}

// maybeAllConfirmed opens discussion once every active player has seen their
// role, arming the server-side countdown to voting.
func (e *Engine) maybeAllConfirmed(room *model.SpyRoom) {
	if room.Phase != model.SpyRoleReveal {
		return
	}
	active := room.ActivePlayers()
	if len(active) == 0 {
		return
	}
	for _, p := range active {
		if !p.Confirmed {
			return
		}
	}

	room.Phase = model.SpyDiscussion
	room.DiscussionStartedAt = e.now()
	e.bc.ToRoom(room.Code, model.EvSpyStartDiscussion, model.SpyStartDiscussionPayload{
		TimerDuration: room.TimerDuration,
		StartTime:     room.DiscussionStartedAt.UnixMilli(),
	})
	e.armSpyTimer(room, model.SpyDiscussion, time.Duration(room.TimerDuration)*time.Second)
}

// startVoting is the timer-driven transition out of discussion: the one case
// where the server advances state without a client-completeness signal.
func (e *Engine) startVoting(room *model.SpyRoom) {
	room.Phase = model.SpyVoting
	room.LastActivity = e.now()
	roster := lo.Map(room.ActivePlayers(), func(p *model.SpyPlayer, _ int) model.SpyRosterEntry {
		return model.SpyRosterEntry{ID: p.ID, Name: p.Name}
	})
	e.bc.ToRoom(room.Code, model.EvSpyStartVoting, model.SpyStartVotingPayload{Players: roster})
}

func (e *Engine) handleSpyVote(connID string, p model.VotePayload) {
	room := e.spyRoom(connID, p.RoomCode)
	if room == nil || room.Phase != model.SpyVoting {
		return
	}
	player := room.PlayerByID(connID)
	if player == nil || player.Disconnected {
		return
	}
	if player.Voted {
		// A second vote is rejected, not overwritten.
		e.errorTo(connID, msgAlreadyVoted)
		return
	}
	target := room.PlayerByID(p.VotedFor)
	if target == nil || target.Disconnected || target.ID == connID {
		e.errorTo(connID, msgInvalidVote)
		return
	}

	player.Voted = true
	player.VotedFor = target.ID
	room.LastActivity = e.now()

	active := room.ActivePlayers()
	voted := lo.CountBy(active, func(p *model.SpyPlayer) bool { return p.Voted })
	e.bc.ToRoom(room.Code, model.EvSpyVoteUpdate, model.SpyCounterPayload{Done: voted, Total: len(active)})

	e.maybeAllVoted(room)
}

// maybeAllVoted tallies once every active player has voted. Candidates are
// scanned in join order and strict > keeps the earliest leader, so ties go
// to the earliest-joined candidate. Arbitrary, but stable.
func (e *Engine) maybeAllVoted(room *model.SpyRoom) {
	if room.Phase != model.SpyVoting {
		return
	}
	active := room.ActivePlayers()
	if len(active) == 0 {
		return
	}
	for _, p := range active {
		if !p.Voted {
			return
		}
	}

	counts := lo.CountValuesBy(active, func(p *model.SpyPlayer) string { return p.VotedFor })
	maxVotes := 0
	mostVoted := ""
	for _, candidate := range room.Players {
		if c := counts[candidate.ID]; c > maxVotes {
			maxVotes = c
			mostVoted = candidate.ID
		}
	}

	if room.IsSpyID(mostVoted) {
		e.startGuessing(room)
		return
	}
	e.resolveSpyRound(room, false, false)
}

// startGuessing offers the caught spies the word among decoys; a timeout
// resolves the phase if no spy answers.
func (e *Engine) startGuessing(room *model.SpyRoom) {
	room.Phase = model.SpyGuessing
	room.GuessOptions = words.GuessOptions(e.rng, room.CurrentCategory, room.CurrentWord, maxDecoys)
	room.LastActivity = e.now()
	spyNames := room.SpyNames()

	for _, player := range room.ActivePlayers() {
		payload := model.SpyGuessPhasePayload{
			IAmSpy:   player.IsSpy,
			Category: room.CurrentCategory,
			SpyNames: spyNames,
		}
		if player.IsSpy {
			payload.Options = room.GuessOptions
		}
		e.bc.ToConn(player.ID, model.EvSpyGuessPhase, payload)
	}

	e.armSpyTimer(room, model.SpyGuessing, e.guessTimeout)
}

// handleSpyGuess resolves on the first spy response; later guesses find the
// phase already advanced and are ignored.
func (e *Engine) handleSpyGuess(connID string, p model.GuessPayload) {
	room := e.spyRoom(connID, p.RoomCode)
	if room == nil || room.Phase != model.SpyGuessing {
		return
	}
	player := room.PlayerByID(connID)
	if player == nil || player.Disconnected || !player.IsSpy {
		return
	}

	e.resolveSpyRound(room, true, p.Guess == room.CurrentWord)
}

// spyRoundScore is the 2x2 scoring table.
func spyRoundScore(isSpy, spyCaught, guessedCorrectly bool) int {
	if isSpy {
		if !spyCaught {
			return 4
		}
		if guessedCorrectly {
			return 2
		}
		return -2
	}
	if !spyCaught {
		return -1
	}
	if guessedCorrectly {
		return 1
	}
	return 3
}

func (e *Engine) resolveSpyRound(room *model.SpyRoom, spyCaught, guessedCorrectly bool) {
	room.TimerSeq++ // cancel a pending guess timeout
	room.Phase = model.SpyResult
	room.LastActivity = e.now()

	entries := make([]model.SpyResultEntry, 0, len(room.Players))
	for _, player := range room.Players {
		player.RoundScore = spyRoundScore(player.IsSpy, spyCaught, guessedCorrectly)
		player.TotalScore += player.RoundScore
		entries = append(entries, model.SpyResultEntry{
			ID:         player.ID,
			Name:       player.Name,
			RoundScore: player.RoundScore,
			TotalScore: player.TotalScore,
			IsSpy:      player.IsSpy,
		})
	}

	e.bc.ToRoom(room.Code, model.EvSpyRoundResult, model.SpyRoundResultPayload{
		SpyCaught:           spyCaught,
		SpyGuessedCorrectly: guessedCorrectly,
		Word:                room.CurrentWord,
		Category:            room.CurrentCategory,
		SpyNames:            room.SpyNames(),
		SpyIDs:              room.SpyIDs,
		Players:             entries,
	})
	e.log.Info().Str("room", room.Code).Bool("caught", spyCaught).
		Bool("guessed", guessedCorrectly).Msg("spy round resolved")
}

func (e *Engine) handleSpyNextRound(connID string, p model.RoomOnlyPayload) {
	room := e.spyRoom(connID, p.RoomCode)
	if room == nil || room.HostID != connID || !room.GameActive {
		return
	}
	if room.Phase != model.SpyResult {
		return
	}

	if room.CurrentRound >= room.TotalRounds {
		standings := lo.Map(room.Players, func(p *model.SpyPlayer, _ int) model.SpyResultEntry {
			return model.SpyResultEntry{ID: p.ID, Name: p.Name, TotalScore: p.TotalScore}
		})
		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].TotalScore > standings[j].TotalScore
		})
		room.GameActive = false
		room.Phase = ""
		e.bc.ToRoom(room.Code, model.EvSpyGameOver, model.SpyGameOverPayload{Players: standings})
		e.log.Info().Str("room", room.Code).Msg("spy game over")
		return
	}

	if len(room.ActivePlayers()) < minSpyPlayers {
		e.errorTo(connID, msgNeedPlayers)
		return
	}
	e.startSpyRound(room)
}

func (e *Engine) anyActiveSpy(room *model.SpyRoom) bool {
	return lo.SomeBy(room.ActivePlayers(), func(p *model.SpyPlayer) bool { return p.IsSpy })
}

func (e *Engine) spyRoom(connID, rawCode string) *model.SpyRoom {
	code, ok := model.SanitizeCode(rawCode)
	if !ok {
		e.errorTo(connID, msgInvalidCode)
		return nil
	}
	room := e.store.SpyRoom(code)
	if room == nil {
		e.errorTo(connID, msgRoomNotFound)
		return nil
	}
	return room
}
