package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atobis/internal/model"
)

func startTestSpyGame(t *testing.T, e *Engine, code string, conns []string) *model.SpyRoom {
	t.Helper()
	e.handleStartGame(conns[0], model.StartGamePayload{RoomCode: code})
	room := e.store.SpyRoom(code)
	require.True(t, room.GameActive)
	require.Equal(t, model.SpyRoleReveal, room.Phase)
	require.Len(t, room.SpyIDs, 1)
	return room
}

func confirmAll(e *Engine, room *model.SpyRoom) {
	for _, p := range room.ActivePlayers() {
		e.handleSpyConfirm(p.ID, model.RoomOnlyPayload{RoomCode: room.Code})
	}
}

func TestSpyRoundScoreTable(t *testing.T) {
	// spy caught + correct guess
	assert.Equal(t, 2, spyRoundScore(true, true, true))
	assert.Equal(t, 1, spyRoundScore(false, true, true))
	// spy caught + wrong guess
	assert.Equal(t, -2, spyRoundScore(true, true, false))
	assert.Equal(t, 3, spyRoundScore(false, true, false))
	// spy escaped the vote
	assert.Equal(t, 4, spyRoundScore(true, false, false))
	assert.Equal(t, -1, spyRoundScore(false, false, false))
}

func TestSpyRoleRevealHidesWordFromSpy(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	code, _ := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, []string{"s0", "s1", "s2", "s3"})

	reveals := rec.all(model.EvSpyRoundStarted)
	require.Len(t, reveals, 4)
	for _, ev := range reveals {
		payload := ev.payload.(model.SpyRoundStartedPayload)
		connID := ev.target[len("conn:"):]
		if room.IsSpyID(connID) {
			assert.True(t, payload.IsSpy)
			assert.Empty(t, payload.Word, "spies never see the word")
		} else {
			assert.False(t, payload.IsSpy)
			assert.Equal(t, room.CurrentWord, payload.Word)
		}
		assert.Equal(t, room.CurrentCategory, payload.Category)
	}
}

func TestSpyCaughtAndGuessesCorrectly(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	require.Equal(t, model.SpyDiscussion, room.Phase)
	require.NotNil(t, rec.last(model.EvSpyStartDiscussion))

	timers.fireAll(e) // discussion countdown elapses
	require.Equal(t, model.SpyVoting, room.Phase)
	require.NotNil(t, rec.last(model.EvSpyStartVoting))

	for _, p := range room.ActivePlayers() {
		target := spyID
		if p.ID == spyID {
			for _, other := range room.ActivePlayers() {
				if other.ID != spyID {
					target = other.ID
					break
				}
			}
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}

	require.Equal(t, model.SpyGuessing, room.Phase)
	guessEvents := rec.all(model.EvSpyGuessPhase)
	require.Len(t, guessEvents, 4)
	for _, ev := range guessEvents {
		payload := ev.payload.(model.SpyGuessPhasePayload)
		if ev.target == "conn:"+spyID {
			assert.Contains(t, payload.Options, room.CurrentWord)
		} else {
			assert.Empty(t, payload.Options, "decoy options go to spies only")
		}
	}

	e.handleSpyGuess(spyID, model.GuessPayload{RoomCode: code, Guess: room.CurrentWord})

	result := rec.last(model.EvSpyRoundResult)
	require.NotNil(t, result)
	payload := result.payload.(model.SpyRoundResultPayload)
	assert.True(t, payload.SpyCaught)
	assert.True(t, payload.SpyGuessedCorrectly)
	assert.Equal(t, room.CurrentWord, payload.Word)

	for _, p := range room.Players {
		if p.IsSpy {
			assert.Equal(t, 2, p.RoundScore)
		} else {
			assert.Equal(t, 1, p.RoundScore)
		}
	}
}

func TestSpyEscapesVote(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	timers.fireAll(e)
	require.Equal(t, model.SpyVoting, room.Phase)

	// Everyone piles on the same civilian.
	var scapegoat string
	for _, p := range room.ActivePlayers() {
		if p.ID != spyID {
			scapegoat = p.ID
			break
		}
	}
	for _, p := range room.ActivePlayers() {
		target := scapegoat
		if p.ID == scapegoat {
			target = spyID
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}

	result := rec.last(model.EvSpyRoundResult)
	require.NotNil(t, result)
	payload := result.payload.(model.SpyRoundResultPayload)
	assert.False(t, payload.SpyCaught)
	assert.False(t, payload.SpyGuessedCorrectly)

	for _, p := range room.Players {
		if p.IsSpy {
			assert.Equal(t, 4, p.RoundScore)
		} else {
			assert.Equal(t, -1, p.RoundScore)
		}
	}
}

func TestVoteTieGoesToEarliestJoined(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := e.store.SpyRoom(code)

	room.GameActive = true
	room.Phase = model.SpyVoting
	room.CurrentWord = "أسد"
	room.CurrentCategory = "animal"
	room.SpyIDs = []string{conns[3]}
	for _, p := range room.Players {
		p.IsSpy = room.IsSpyID(p.ID)
	}

	// Every candidate gets exactly one vote.
	votes := map[string]string{
		conns[0]: conns[1],
		conns[1]: conns[0],
		conns[2]: conns[3],
		conns[3]: conns[2],
	}
	for voter, target := range votes {
		p := room.PlayerByID(voter)
		p.Voted = true
		p.VotedFor = target
	}
	e.maybeAllVoted(room)

	// The earliest-joined candidate wins the tie, and they are not the spy.
	result := rec.last(model.EvSpyRoundResult)
	require.NotNil(t, result)
	assert.False(t, result.payload.(model.SpyRoundResultPayload).SpyCaught)
}

func TestSecondVoteRejected(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)

	confirmAll(e, room)
	timers.fireAll(e)

	voter := room.ActivePlayers()[0]
	var first, second string
	for _, p := range room.ActivePlayers() {
		if p.ID == voter.ID {
			continue
		}
		if first == "" {
			first = p.ID
		} else if second == "" {
			second = p.ID
		}
	}

	e.handleSpyVote(voter.ID, model.VotePayload{RoomCode: code, VotedFor: first})
	require.Equal(t, first, voter.VotedFor)

	rec.reset()
	e.handleSpyVote(voter.ID, model.VotePayload{RoomCode: code, VotedFor: second})
	errEv := rec.last(model.EvError)
	require.NotNil(t, errEv)
	assert.Equal(t, msgAlreadyVoted, errEv.payload.(model.ErrorPayload).Message)
	assert.Equal(t, first, voter.VotedFor, "the first vote stands")

	// Self-votes are invalid too.
	rec.reset()
	other := room.PlayerByID(first)
	e.handleSpyVote(other.ID, model.VotePayload{RoomCode: code, VotedFor: other.ID})
	errEv = rec.last(model.EvError)
	require.NotNil(t, errEv)
	assert.Equal(t, msgInvalidVote, errEv.payload.(model.ErrorPayload).Message)
}

func TestDisconnectUnblocksConfirmBarrier(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)

	for _, conn := range conns[:3] {
		e.handleSpyConfirm(conn, model.RoomOnlyPayload{RoomCode: code})
	}
	require.Equal(t, model.SpyRoleReveal, room.Phase)

	e.handleDisconnect(conns[3])
	assert.Equal(t, model.SpyDiscussion, room.Phase)
	assert.NotNil(t, rec.last(model.EvSpyStartDiscussion))
}

func TestGuessTimeoutResolvesRound(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	timers.fireAll(e)
	for _, p := range room.ActivePlayers() {
		target := spyID
		if p.ID == spyID {
			target = conns[0]
			if spyID == conns[0] {
				target = conns[1]
			}
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}
	require.Equal(t, model.SpyGuessing, room.Phase)

	// Nobody guesses; the timeout counts as a wrong answer.
	timers.fireAll(e)

	result := rec.last(model.EvSpyRoundResult)
	require.NotNil(t, result)
	payload := result.payload.(model.SpyRoundResultPayload)
	assert.True(t, payload.SpyCaught)
	assert.False(t, payload.SpyGuessedCorrectly)
	assert.Equal(t, model.SpyResult, room.Phase)
}

func TestStaleTimerIsIgnored(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	timers.fireAll(e)
	for _, p := range room.ActivePlayers() {
		target := spyID
		if p.ID == spyID {
			target = conns[0]
			if spyID == conns[0] {
				target = conns[1]
			}
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}

	// The spy answers before the guess timer fires.
	e.handleSpyGuess(spyID, model.GuessPayload{RoomCode: code, Guess: "كلام فاضي"})
	require.Len(t, rec.all(model.EvSpyRoundResult), 1)

	timers.fireAll(e)
	assert.Len(t, rec.all(model.EvSpyRoundResult), 1, "a stale timer must not resolve twice")
	assert.Equal(t, model.SpyResult, room.Phase)
}

func TestSpyGameNeedsThreePlayers(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 2)
	room := e.store.SpyRoom(code)

	e.handleStartGame(conns[0], model.StartGamePayload{RoomCode: code})
	errEv := rec.last(model.EvError)
	require.NotNil(t, errEv)
	assert.Equal(t, msgNeedPlayers, errEv.payload.(model.ErrorPayload).Message)
	assert.False(t, room.GameActive)
}

func TestSpyCountClampedToRoster(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 3)

	e.handleStartGame(conns[0], model.StartGamePayload{RoomCode: code, SpyCount: 10})
	room := e.store.SpyRoom(code)
	require.True(t, room.GameActive)
	assert.Len(t, room.SpyIDs, 2, "never everyone a spy")
}

func TestSpyNextRoundAndGameOver(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	e.handleStartGame(conns[0], model.StartGamePayload{RoomCode: code, TotalRounds: 1})
	room := e.store.SpyRoom(code)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	timers.fireAll(e)
	for _, p := range room.ActivePlayers() {
		target := spyID
		if p.ID == spyID {
			target = conns[0]
			if spyID == conns[0] {
				target = conns[1]
			}
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}
	e.handleSpyGuess(spyID, model.GuessPayload{RoomCode: code, Guess: room.CurrentWord})
	require.Equal(t, model.SpyResult, room.Phase)

	// Non-host cannot advance.
	nonHost := conns[1]
	if room.HostID == nonHost {
		nonHost = conns[2]
	}
	e.handleSpyNextRound(nonHost, model.RoomOnlyPayload{RoomCode: code})
	assert.True(t, room.GameActive)

	e.handleSpyNextRound(room.HostID, model.RoomOnlyPayload{RoomCode: code})
	over := rec.last(model.EvSpyGameOver)
	require.NotNil(t, over)
	standings := over.payload.(model.SpyGameOverPayload).Players
	require.Len(t, standings, 4)
	assert.GreaterOrEqual(t, standings[0].TotalScore, standings[len(standings)-1].TotalScore)
	assert.False(t, room.GameActive)
}

func TestAllSpiesGoneResolvesGuessPhase(t *testing.T) {
	e, rec, timers := newTestEngine(t)
	code, conns := makeSpyRoom(t, e, rec, 4)
	room := startTestSpyGame(t, e, code, conns)
	spyID := room.SpyIDs[0]

	confirmAll(e, room)
	timers.fireAll(e)
	for _, p := range room.ActivePlayers() {
		target := spyID
		if p.ID == spyID {
			target = conns[0]
			if spyID == conns[0] {
				target = conns[1]
			}
		}
		e.handleSpyVote(p.ID, model.VotePayload{RoomCode: code, VotedFor: target})
	}
	require.Equal(t, model.SpyGuessing, room.Phase)

	e.handleDisconnect(spyID)

	result := rec.last(model.EvSpyRoundResult)
	require.NotNil(t, result)
	payload := result.payload.(model.SpyRoundResultPayload)
	assert.True(t, payload.SpyCaught)
	assert.False(t, payload.SpyGuessedCorrectly)
}
