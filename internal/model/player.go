package model

// Player is a participant in a word-category room. ID is the current
// connection id and is rebound on reconnect; Name is the durable identity
// within the room.
type Player struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	IsHost       bool              `json:"isHost"`
	Disconnected bool              `json:"disconnected"`
	Finished     bool              `json:"finished"`
	HasSubmitted bool              `json:"hasSubmitted"`
	Answers      map[string]string `json:"answers,omitempty"`
	Scores       map[string]int    `json:"scores,omitempty"`
	RoundScore   int               `json:"roundScore"`
	TotalScore   int               `json:"totalScore"`
}

// ResetRound clears the per-round fields ahead of a new round.
func (p *Player) ResetRound(categories []string) {
	p.Finished = false
	p.HasSubmitted = false
	p.RoundScore = 0
	p.Answers = make(map[string]string, len(categories))
	p.Scores = make(map[string]int, len(categories))
	for _, cat := range categories {
		p.Answers[cat] = ""
	}
}

// SpyPlayer is a participant in a spy room.
type SpyPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsHost       bool   `json:"isHost"`
	Disconnected bool   `json:"disconnected"`
	IsSpy        bool   `json:"-"`
	Confirmed    bool   `json:"confirmed"`
	Voted        bool   `json:"voted"`
	VotedFor     string `json:"-"`
	RoundScore   int    `json:"roundScore"`
	TotalScore   int    `json:"totalScore"`
}

// ResetRound clears role and barrier flags ahead of a new round.
func (p *SpyPlayer) ResetRound() {
	p.IsSpy = false
	p.Confirmed = false
	p.Voted = false
	p.VotedFor = ""
	p.RoundScore = 0
}
