package game

// PlayerView is the client-facing representation of one player. Hands stay
// hidden; only their size is public.
type PlayerView struct {
	Name        string `json:"name"`
	IsHost      bool   `json:"isHost"`
	IsOut       bool   `json:"isOut"`
	IsProtected bool   `json:"isProtected"`
	Score       int    `json:"score"`
	HandSize    int    `json:"handSize"`
	Discarded   []Card `json:"discarded"`
	IsTurn      bool   `json:"isTurn"`
	You         bool   `json:"you"`
}

// StateMsg is the full polling payload for one player. Private information
// (hand, private message) is included only for the requesting player.
type StateMsg struct {
	LobbyID        string       `json:"lobbyId"`
	Started        bool         `json:"started"`
	GameOver       bool         `json:"gameOver"`
	DeckSize       int          `json:"deckSize"`
	RemovedCard    bool         `json:"removedCard"`
	TurnIndex      int          `json:"turnIndex"`
	TurnPlayer     string       `json:"turnPlayer,omitempty"`
	Players        []PlayerView `json:"players"`
	Hand           []Card       `json:"hand"`
	PrivateMessage string       `json:"privateMessage,omitempty"`
	Logs           []string     `json:"logs"`
	LastAction     *LastAction  `json:"lastAction,omitempty"`
	RoundEndUnixMs int64        `json:"roundEndUnixMs,omitempty"`
}

// StateFor builds the state view for the player with the given session id.
// Unknown sids get the public view with an empty hand.
func (g *Game) StateFor(sid string) StateMsg {
	g.mu.Lock()
	defer g.mu.Unlock()

	msg := StateMsg{
		LobbyID:     g.LobbyID,
		Started:     g.Started,
		GameOver:    g.Over,
		DeckSize:    len(g.Deck),
		RemovedCard: g.RemovedCard != nil,
		TurnIndex:   g.TurnIndex,
		Players:     make([]PlayerView, 0, len(g.Players)),
		Hand:        []Card{},
		Logs:        logsTail(g.Logs),
		LastAction:  g.LastAction,
	}
	if g.Started && !g.Over && g.TurnIndex < len(g.Players) {
		msg.TurnPlayer = g.Players[g.TurnIndex].Name
	}
	if !g.RoundEndTime.IsZero() {
		msg.RoundEndUnixMs = g.RoundEndTime.UnixMilli()
	}

	for i, p := range g.Players {
		view := PlayerView{
			Name:        p.Name,
			IsHost:      p.IsHost,
			IsOut:       p.IsOut,
			IsProtected: p.IsProtected,
			Score:       p.Score,
			HandSize:    len(p.Hand),
			Discarded:   append([]Card{}, p.Discarded...),
			IsTurn:      g.Started && !g.Over && i == g.TurnIndex,
			You:         p.SID == sid,
		}
		msg.Players = append(msg.Players, view)

		if p.SID == sid {
			msg.Hand = append([]Card{}, p.Hand...)
			msg.PrivateMessage = p.PrivateMessage
		}
	}
	return msg
}

// logsTail returns the most recent log entries shown to clients.
func logsTail(logs []string) []string {
	const tail = 15
	if len(logs) <= tail {
		return append([]string{}, logs...)
	}
	return append([]string{}, logs[len(logs)-tail:]...)
}
