package game

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"atobis/internal/model"
	"atobis/internal/words"
)

const (
	minRounds     = 1
	maxRounds     = 20
	minCategories = 3
	maxCategories = 12
	maxAnswerLen  = 64
)

func (e *Engine) startAtobisGame(connID string, room *model.Room, p model.StartGamePayload) {
	if room.HostID != connID {
		return
	}

	rounds := p.TotalRounds
	if rounds == 0 {
		rounds = 5
	}
	if rounds < minRounds || rounds > maxRounds {
		e.errorTo(connID, msgBadConfig)
		return
	}

	categories := room.Categories
	if len(p.Categories) > 0 {
		cleaned := lo.Uniq(lo.FilterMap(p.Categories, func(c string, _ int) (string, bool) {
			c = strings.TrimSpace(c)
			return c, c != ""
		}))
		if len(cleaned) < minCategories {
			e.errorTo(connID, msgNeedCategories)
			return
		}
		if len(cleaned) > maxCategories {
			e.errorTo(connID, msgBadConfig)
			return
		}
		categories = cleaned
	}

	room.TotalRounds = rounds
	room.Categories = categories
	room.CurrentRound = 1
	room.UsedLetters = []string{}
	room.GameActive = true
	for _, player := range room.Players {
		player.TotalScore = 0
	}
	e.startAtobisRound(room)
}

// startAtobisRound picks an unused letter (recycling the used set once the
// alphabet is exhausted), resets per-round player state, and broadcasts the
// round start.
func (e *Engine) startAtobisRound(room *model.Room) {
	available := lo.Filter(words.Letters, func(l string, _ int) bool {
		return !lo.Contains(room.UsedLetters, l)
	})
	if len(available) == 0 {
		room.UsedLetters = []string{}
		available = words.Letters
	}
	letter := available[e.rng.Intn(len(available))]

	room.CurrentLetter = letter
	room.UsedLetters = append(room.UsedLetters, letter)
	room.RoundState = model.RoundPlaying
	room.Scored = false
	room.RoundStartedAt = e.now()
	room.LastActivity = room.RoundStartedAt

	for _, player := range room.Players {
		player.ResetRound(room.Categories)
	}

	e.bc.ToRoom(room.Code, model.EvRoundStarted, model.RoundStartedPayload{
		Round:       room.CurrentRound,
		TotalRounds: room.TotalRounds,
		Letter:      letter,
		StartTime:   room.RoundStartedAt.UnixMilli(),
		Categories:  room.Categories,
	})
	e.log.Info().Str("room", room.Code).Int("round", room.CurrentRound).Str("letter", letter).Msg("round started")
}

func (e *Engine) handleSelectLetter(connID string, p model.SelectLetterPayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || room.HostID != connID {
		return
	}
	if !lo.Contains(words.Letters, p.Letter) {
		e.errorTo(connID, msgBadRequest)
		return
	}
	room.CurrentLetter = p.Letter
	room.LastActivity = e.now()
	e.bc.ToRoom(room.Code, model.EvLetterSelected, model.LetterSelectedPayload{Letter: p.Letter})
}

// handleFinishRound is the first-finisher signal: it ends the shared timer
// for everyone and moves the room to scoring.
func (e *Engine) handleFinishRound(connID string, p model.AnswersPayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || !room.GameActive || room.RoundState != model.RoundPlaying {
		return
	}
	player := room.PlayerByID(connID)
	if player == nil || player.Disconnected {
		return
	}

	player.Answers = sanitizeAnswers(p.Answers, room.Categories)
	player.Finished = true
	player.HasSubmitted = true
	room.RoundState = model.RoundScoring
	room.LastActivity = e.now()

	e.bc.ToRoom(room.Code, model.EvRoundEnded, model.RoundEndedPayload{Finisher: player.Name})
	e.maybeFinishSubmissions(room)
}

// handleSubmitAnswers stores a player's answers. Submission is idempotent
// (last value wins) and only the completeness check advances the phase.
func (e *Engine) handleSubmitAnswers(connID string, p model.AnswersPayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || !room.GameActive || room.RoundState == model.RoundIdle {
		return
	}
	player := room.PlayerByID(connID)
	if player == nil || player.Disconnected {
		return
	}

	player.Answers = sanitizeAnswers(p.Answers, room.Categories)
	player.HasSubmitted = true
	room.LastActivity = e.now()
	e.maybeFinishSubmissions(room)
}

// maybeFinishSubmissions advances to the scoring broadcast once every active
// player has submitted. Re-run after disconnects so the barrier is never
// stuck on an absent player.
func (e *Engine) maybeFinishSubmissions(room *model.Room) {
	if !room.GameActive || room.RoundState == model.RoundIdle || room.Scored {
		return
	}
	active := room.ActivePlayers()
	if len(active) == 0 {
		return
	}
	for _, p := range active {
		if !p.HasSubmitted {
			return
		}
	}

	room.RoundState = model.RoundScoring
	room.Scored = true
	e.scoreRound(room)
	e.bc.ToRoom(room.Code, model.EvScoringPhase, model.ScoringPhasePayload{
		Players:      active,
		CurrentRound: room.CurrentRound,
		TotalRounds:  room.TotalRounds,
		Categories:   room.Categories,
		HostID:       room.HostID,
	})
}

// scoreRound applies the uniqueness rule among active players: 0 for empty
// or wrong-letter answers, 5 when another active player has the identical
// normalized answer in the same category, 10 when unique.
func (e *Engine) scoreRound(room *model.Room) {
	letter := normalizeAnswer(room.CurrentLetter)
	active := room.ActivePlayers()

	for _, player := range active {
		player.RoundScore = 0
		player.Scores = make(map[string]int, len(room.Categories))

		for _, cat := range room.Categories {
			ans := normalizeAnswer(player.Answers[cat])
			if ans == "" || !strings.HasPrefix(ans, letter) {
				player.Scores[cat] = 0
				continue
			}

			duplicate := lo.SomeBy(active, func(other *model.Player) bool {
				return other.ID != player.ID && normalizeAnswer(other.Answers[cat]) == ans
			})
			if duplicate {
				player.Scores[cat] = 5
			} else {
				player.Scores[cat] = 10
			}
			player.RoundScore += player.Scores[cat]
		}
	}
}

// handleUpdateScore is the host override: authoritative and final for that
// cell, no duplicate re-detection.
func (e *Engine) handleUpdateScore(connID string, p model.UpdateScorePayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || room.HostID != connID {
		return
	}
	if !lo.Contains(room.Categories, p.Category) {
		e.errorTo(connID, msgBadRequest)
		return
	}
	if p.Score != 0 && p.Score != 5 && p.Score != 10 {
		e.errorTo(connID, msgBadRequest)
		return
	}
	player := room.PlayerByID(p.PlayerID)
	if player == nil {
		return
	}

	if player.Scores == nil {
		player.Scores = make(map[string]int, len(room.Categories))
	}
	player.Scores[p.Category] = p.Score

	total := 0
	for _, cat := range room.Categories {
		total += player.Scores[cat]
	}
	player.RoundScore = total
	room.LastActivity = e.now()

	e.bc.ToRoom(room.Code, model.EvScoreUpdated, model.ScoreUpdatedPayload{
		PlayerID:   p.PlayerID,
		Category:   p.Category,
		Score:      p.Score,
		RoundScore: total,
	})
}

// handleAdvanceRound folds round scores into totals, then starts the next
// round or ends the game with sorted standings.
func (e *Engine) handleAdvanceRound(connID string, p model.RoomOnlyPayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || room.HostID != connID || !room.GameActive {
		return
	}

	for _, player := range room.Players {
		player.TotalScore += player.RoundScore
	}
	room.LastActivity = e.now()

	if room.CurrentRound >= room.TotalRounds {
		standings := append([]*model.Player(nil), room.Players...)
		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].TotalScore > standings[j].TotalScore
		})
		room.GameActive = false
		room.RoundState = model.RoundIdle
		e.bc.ToRoom(room.Code, model.EvGameOver, model.GameOverPayload{Players: standings})
		e.log.Info().Str("room", room.Code).Msg("game over")
		return
	}

	room.CurrentRound++
	e.startAtobisRound(room)
}

func (e *Engine) handlePlayAgain(connID string, p model.RoomOnlyPayload) {
	room := e.atobisRoom(connID, p.RoomCode)
	if room == nil || room.PlayerByID(connID) == nil {
		return
	}

	room.CurrentLetter = ""
	room.CurrentRound = 0
	room.GameActive = false
	room.RoundState = model.RoundIdle
	room.Scored = false
	room.LastActivity = e.now()
	for _, player := range room.Players {
		player.ResetRound(room.Categories)
		player.TotalScore = 0
	}

	e.bc.ToRoom(room.Code, model.EvGameReset, model.GameResetPayload{
		Players:     room.Players,
		UsedLetters: room.UsedLetters,
	})
	e.log.Info().Str("room", room.Code).Msg("game reset")
}

func (e *Engine) atobisRoom(connID, rawCode string) *model.Room {
	code, ok := model.SanitizeCode(rawCode)
	if !ok {
		e.errorTo(connID, msgInvalidCode)
		return nil
	}
	room := e.store.Room(code)
	if room == nil {
		e.errorTo(connID, msgRoomNotFound)
		return nil
	}
	return room
}

// sanitizeAnswers keeps only known categories, trimmed and length-capped.
func sanitizeAnswers(raw map[string]string, categories []string) map[string]string {
	out := make(map[string]string, len(categories))
	for _, cat := range categories {
		ans := strings.TrimSpace(raw[cat])
		runes := []rune(ans)
		if len(runes) > maxAnswerLen {
			ans = string(runes[:maxAnswerLen])
		}
		out[cat] = ans
	}
	return out
}
