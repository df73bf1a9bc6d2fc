package model

// Inbound event names (client -> server).
const (
	EvCreateRoom       = "create-room"
	EvJoinRoom         = "join-room"
	EvStartGame        = "start-game"
	EvSelectLetter     = "select-letter"
	EvFinishRound      = "finish-round"
	EvSubmitAnswers    = "submit-answers"
	EvUpdateScore      = "update-single-score"
	EvAdvanceRound     = "update-scores-and-next"
	EvPlayAgain        = "play-again"
	EvSpyConfirmRole   = "spy-confirm-role"
	EvSpySubmitVote    = "spy-submit-vote"
	EvSpySubmitGuess   = "spy-submit-guess"
	EvSpyNextRound     = "spy-next-round"
	EvAttemptReconnect = "attempt-reconnect"
)

// Outbound event names (server -> room or server -> connection).
const (
	EvRoomCreated        = "room-created"
	EvRoomJoined         = "room-joined"
	EvPlayerJoined       = "player-joined"
	EvPlayerLeft         = "player-left"
	EvPlayerReconnected  = "player-reconnected"
	EvHostChanged        = "host-changed"
	EvLetterSelected     = "letter-selected"
	EvRoundStarted       = "round-started"
	EvRoundEnded         = "round-ended"
	EvScoringPhase       = "scoring-phase"
	EvScoreUpdated       = "score-updated"
	EvGameOver           = "game-over"
	EvGameReset          = "game-reset"
	EvSpyRoundStarted    = "spy-round-started"
	EvSpyConfirmUpdate   = "spy-confirm-update"
	EvSpyStartDiscussion = "spy-start-discussion"
	EvSpyStartVoting     = "spy-start-voting"
	EvSpyVoteUpdate      = "spy-vote-update"
	EvSpyGuessPhase      = "spy-guess-phase"
	EvSpyRoundResult     = "spy-round-result"
	EvSpyGameOver        = "spy-game-over"
	EvReconnectSuccess   = "reconnect-success"
	EvReconnectFailed    = "reconnect-failed"
	EvError              = "error"
	EvServerShutdown     = "server-shutdown"
)

// Inbound payloads. Validated at the dispatch boundary before any engine
// state is touched.

type CreateRoomPayload struct {
	Name     string   `json:"playerName"`
	GameType GameType `json:"gameType"`
}

type JoinRoomPayload struct {
	RoomCode string   `json:"roomCode"`
	Name     string   `json:"playerName"`
	GameType GameType `json:"gameType"`
}

type StartGamePayload struct {
	RoomCode      string   `json:"roomCode"`
	TotalRounds   int      `json:"totalRounds"`
	Categories    []string `json:"categories"`
	TimerDuration int      `json:"timerDuration"` // spy only
	SpyCount      int      `json:"spyCount"`      // spy only
}

type SelectLetterPayload struct {
	RoomCode string `json:"roomCode"`
	Letter   string `json:"letter"`
}

type AnswersPayload struct {
	RoomCode string            `json:"roomCode"`
	Answers  map[string]string `json:"answers"`
}

type UpdateScorePayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Category string `json:"category"`
	Score    int    `json:"score"`
}

type RoomOnlyPayload struct {
	RoomCode string `json:"roomCode"`
}

type VotePayload struct {
	RoomCode string `json:"roomCode"`
	VotedFor string `json:"votedFor"`
}

type GuessPayload struct {
	RoomCode string `json:"roomCode"`
	Guess    string `json:"guess"`
}

type ReconnectPayload struct {
	Name     string   `json:"playerName"`
	RoomCode string   `json:"roomCode"`
	GameType GameType `json:"gameType"`
}

// Outbound payloads.

type ErrorPayload struct {
	Message string `json:"message"`
}

type RoomCreatedPayload struct {
	RoomCode    string    `json:"roomCode"`
	GameType    GameType  `json:"gameType"`
	Players     []*Player `json:"players"`
	UsedLetters []string  `json:"usedLetters"`
}

type SpyRoomCreatedPayload struct {
	RoomCode string       `json:"roomCode"`
	GameType GameType     `json:"gameType"`
	Players  []*SpyPlayer `json:"players"`
}

type RoomJoinedPayload struct {
	RoomCode      string    `json:"roomCode"`
	GameType      GameType  `json:"gameType"`
	Players       []*Player `json:"players"`
	UsedLetters   []string  `json:"usedLetters"`
	CurrentLetter string    `json:"currentLetter"`
	GameActive    bool      `json:"gameActive"`
	Categories    []string  `json:"categories"`
}

type SpyRoomJoinedPayload struct {
	RoomCode string       `json:"roomCode"`
	GameType GameType     `json:"gameType"`
	Players  []*SpyPlayer `json:"players"`
}

type PlayerJoinedPayload struct {
	Players   any    `json:"players"`
	NewPlayer string `json:"newPlayer"`
}

type PlayerLeftPayload struct {
	Players any `json:"players"`
}

type PlayerReconnectedPayload struct {
	Players any    `json:"players"`
	Name    string `json:"playerName"`
}

type HostChangedPayload struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
	Players  any    `json:"players"`
}

type LetterSelectedPayload struct {
	Letter string `json:"letter"`
}

type RoundStartedPayload struct {
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
	Letter      string   `json:"letter"`
	StartTime   int64    `json:"startTime"` // unix millis, server clock
	Categories  []string `json:"categories"`
}

type RoundEndedPayload struct {
	Finisher string `json:"finisher"`
}

type ScoringPhasePayload struct {
	Players      []*Player `json:"players"`
	CurrentRound int       `json:"currentRound"`
	TotalRounds  int       `json:"totalRounds"`
	Categories   []string  `json:"categories"`
	HostID       string    `json:"hostId"`
}

type ScoreUpdatedPayload struct {
	PlayerID   string `json:"playerId"`
	Category   string `json:"category"`
	Score      int    `json:"score"`
	RoundScore int    `json:"roundScore"`
}

type GameOverPayload struct {
	Players []*Player `json:"players"`
}

type GameResetPayload struct {
	Players     []*Player `json:"players"`
	UsedLetters []string  `json:"usedLetters"`
}

type SpyRoundStartedPayload struct {
	Round         int    `json:"round"`
	TotalRounds   int    `json:"totalRounds"`
	IsSpy         bool   `json:"isSpy"`
	Word          string `json:"word,omitempty"` // empty for spies
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
	TimerDuration int    `json:"timerDuration"`
}

type SpyCounterPayload struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

type SpyStartDiscussionPayload struct {
	TimerDuration int   `json:"timerDuration"`
	StartTime     int64 `json:"startTime"` // unix millis, server clock
}

type SpyRosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SpyStartVotingPayload struct {
	Players []SpyRosterEntry `json:"players"`
}

type SpyGuessPhasePayload struct {
	IAmSpy   bool     `json:"iAmSpy"`
	Category string   `json:"category"`
	Options  []string `json:"options,omitempty"` // spies only
	SpyNames []string `json:"spyNames"`
}

type SpyResultEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
	IsSpy      bool   `json:"isSpy"`
}

type SpyRoundResultPayload struct {
	SpyCaught           bool             `json:"spyCaught"`
	SpyGuessedCorrectly bool             `json:"spyGuessedCorrectly"`
	Word                string           `json:"word"`
	Category            string           `json:"category"`
	SpyNames            []string         `json:"spyNames"`
	SpyIDs              []string         `json:"spyIds"`
	Players             []SpyResultEntry `json:"players"`
}

type SpyGameOverPayload struct {
	Players []SpyResultEntry `json:"players"`
}
