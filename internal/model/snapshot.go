package model

// ReconnectSnapshot carries everything a rejoining client needs to redraw
// its current phase without replaying intermediate transitions. Exactly one
// of the game sections is populated depending on GameType.
type ReconnectSnapshot struct {
	RoomCode   string   `json:"roomCode"`
	GameType   GameType `json:"gameType"`
	PlayerID   string   `json:"playerId"`
	IsHost     bool     `json:"isHost"`
	GameActive bool     `json:"gameActive"`
	ServerTime int64    `json:"serverTime"` // unix millis, for clock offset

	Atobis *AtobisSnapshot `json:"atobis,omitempty"`
	Spy    *SpySnapshot    `json:"spy,omitempty"`
}

// AtobisSnapshot is the word-category side of a reconnect snapshot.
type AtobisSnapshot struct {
	Players       []*Player         `json:"players"`
	RoundState    RoundState        `json:"roundState"`
	CurrentRound  int               `json:"currentRound"`
	TotalRounds   int               `json:"totalRounds"`
	CurrentLetter string            `json:"currentLetter"`
	Categories    []string          `json:"categories"`
	UsedLetters   []string          `json:"usedLetters"`
	RoundStart    int64             `json:"roundStart,omitempty"` // unix millis
	OwnAnswers    map[string]string `json:"ownAnswers,omitempty"`
	HasSubmitted  bool              `json:"hasSubmitted"`
}

// SpySnapshot is the spy side of a reconnect snapshot.
type SpySnapshot struct {
	Players       []*SpyPlayer `json:"players"`
	Phase         SpyPhase     `json:"phase,omitempty"`
	CurrentRound  int          `json:"currentRound"`
	TotalRounds   int          `json:"totalRounds"`
	TimerDuration int          `json:"timerDuration"`
	IsSpy         bool         `json:"isSpy"`
	Word          string       `json:"word,omitempty"` // withheld from spies
	Category      string       `json:"category,omitempty"`
	CategoryLabel string       `json:"categoryLabel,omitempty"`
	Confirmed     int          `json:"confirmed"`
	Voted         int          `json:"voted"`
	HasConfirmed  bool         `json:"hasConfirmed"`
	HasVoted      bool         `json:"hasVoted"`
	// RemainingSeconds is derived from the server-recorded discussion start,
	// not from any client-side elapsed guess.
	RemainingSeconds int      `json:"remainingSeconds,omitempty"`
	GuessOptions     []string `json:"guessOptions,omitempty"` // spies in guessing phase
}
