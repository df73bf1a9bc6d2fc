package model

import (
	"time"

	"github.com/samber/lo"
)

// GameType distinguishes the two room namespaces. Codes are unique across
// both.
type GameType string

const (
	GameAtobis GameType = "atobis"
	GameSpy    GameType = "spy"
)

// RoundState is the word-category round phase.
type RoundState string

const (
	RoundIdle    RoundState = "idle"
	RoundPlaying RoundState = "playing"
	RoundScoring RoundState = "scoring"
)

// Room is a word-category game session. It is owned by the store and only
// ever mutated from the engine loop.
type Room struct {
	Code           string     `json:"code"`
	HostID         string     `json:"hostId"`
	Players        []*Player  `json:"players"`
	Categories     []string   `json:"categories"`
	UsedLetters    []string   `json:"usedLetters"`
	CurrentLetter  string     `json:"currentLetter"`
	CurrentRound   int        `json:"currentRound"`
	TotalRounds    int        `json:"totalRounds"`
	RoundState     RoundState `json:"roundState"`
	GameActive     bool       `json:"gameActive"`
	RoundStartedAt time.Time  `json:"-"`
	LastActivity   time.Time  `json:"-"`

	// Scored latches once the round's scores have been computed and
	// broadcast, so later roster changes cannot recompute them and clobber
	// host overrides.
	Scored bool `json:"-"`
}

// PlayerByID returns the player bound to the given connection id.
func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns the player with the given name, connected or not.
func (r *Room) PlayerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the players currently bound to a live connection,
// in join order.
func (r *Room) ActivePlayers() []*Player {
	return lo.Filter(r.Players, func(p *Player, _ int) bool {
		return !p.Disconnected
	})
}

// SpyPhase is the spy round phase.
type SpyPhase string

const (
	SpyRoleReveal SpyPhase = "role-reveal"
	SpyDiscussion SpyPhase = "discussion"
	SpyVoting     SpyPhase = "voting"
	SpyGuessing   SpyPhase = "guessing"
	SpyResult     SpyPhase = "result"
)

// SpyRoom is a spy game session.
type SpyRoom struct {
	Code                string       `json:"code"`
	HostID              string       `json:"hostId"`
	Players             []*SpyPlayer `json:"players"`
	CurrentRound        int          `json:"currentRound"`
	TotalRounds         int          `json:"totalRounds"`
	TimerDuration       int          `json:"timerDuration"` // seconds
	SpyCount            int          `json:"spyCount"`
	CurrentWord         string       `json:"-"`
	CurrentCategory     string       `json:"-"`
	SpyIDs              []string     `json:"-"`
	Categories          []string     `json:"categories"`
	UsedWords           []string     `json:"-"`
	GuessOptions        []string     `json:"-"`
	GameActive          bool         `json:"gameActive"`
	Phase               SpyPhase     `json:"phase,omitempty"`
	DiscussionStartedAt time.Time    `json:"-"`
	LastActivity        time.Time    `json:"-"`

	// TimerSeq invalidates armed phase timers: a timer event carries the
	// sequence it was armed with and is ignored if the room has moved on.
	TimerSeq uint64 `json:"-"`
}

// PlayerByID returns the player bound to the given connection id.
func (r *SpyRoom) PlayerByID(id string) *SpyPlayer {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns the player with the given name, connected or not.
func (r *SpyRoom) PlayerByName(name string) *SpyPlayer {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the players currently bound to a live connection,
// in join order.
func (r *SpyRoom) ActivePlayers() []*SpyPlayer {
	return lo.Filter(r.Players, func(p *SpyPlayer, _ int) bool {
		return !p.Disconnected
	})
}

// IsSpyID reports whether the id belongs to this round's spies.
func (r *SpyRoom) IsSpyID(id string) bool {
	return lo.Contains(r.SpyIDs, id)
}

// SpyNames lists the names of this round's spies.
func (r *SpyRoom) SpyNames() []string {
	names := make([]string, 0, len(r.SpyIDs))
	for _, p := range r.Players {
		if r.IsSpyID(p.ID) {
			names = append(names, p.Name)
		}
	}
	return names
}
