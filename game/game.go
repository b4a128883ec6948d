package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"love-letter-server/gameerrors"
)

const (
	// MinPlayers and MaxPlayers bound the size of a lobby.
	MinPlayers = 2
	MaxPlayers = 4

	// maxLogs caps the in-game log; the oldest entry is evicted first.
	maxLogs = 50

	// DefaultRestartDelay is how long after a round ends before
	// TryAutoRestart deals the next one.
	DefaultRestartDelay = 5 * time.Second
)

// RoundResult summarizes a finished round for observers (e.g. the history
// store). It is built while the game lock is held and must not be retained
// with live player pointers, so it carries plain values only.
type RoundResult struct {
	LobbyID    string
	Winners    []string
	WinnerSIDs []string
	Players    int
	EndReason  string
	EndedAt    time.Time
}

// Round end reasons reported in RoundResult.
const (
	EndReasonEliminations = "eliminations"
	EndReasonDeckEmpty    = "deck_exhausted"
)

// LastAction is a concise summary of the most recent successful play,
// derived state for clients that want a one-line recap.
type LastAction struct {
	Actor     string `json:"actor"`
	CardValue int    `json:"cardValue"`
	CardName  string `json:"cardName"`
	Target    string `json:"target,omitempty"`
	Result    string `json:"result"`
}

// Game holds the full state of one lobby's game and is the sole unit of
// mutual exclusion: every mutating method takes the lock for its whole body
// and leaves the state self-consistent before releasing it.
type Game struct {
	LobbyID string

	mu sync.Mutex

	// Players in turn order. Append-only until the game starts; players may
	// still leave mid-round.
	Players []*Player

	// Deck is drawn from the front. RemovedCard is burned face-down at round
	// start and re-enters play only through the Prince when the deck is empty.
	Deck        []Card
	RemovedCard *Card

	TurnIndex int
	Started   bool
	Over      bool

	Logs []string

	RoundEndTime time.Time

	// LastActivity is bumped by every mutating call; the lobby registry uses
	// it to evict idle games.
	LastActivity time.Time

	LastAction *LastAction

	// RestartDelay gates TryAutoRestart after a round ends.
	RestartDelay time.Duration

	// OnRoundEnd, when set, is called with the result of every finished
	// round. Called with the game lock held; implementations must not call
	// back into the game.
	OnRoundEnd func(RoundResult)
}

// NewGame creates an empty game for the given lobby.
func NewGame(lobbyID string) *Game {
	return &Game{
		LobbyID:      lobbyID,
		RestartDelay: DefaultRestartDelay,
		LastActivity: time.Now(),
	}
}

// AddPlayer adds a player to the lobby. The first player added becomes host.
// Fails once the game has started or the lobby is full.
func (g *Game) AddPlayer(p *Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastActivity = time.Now()

	if g.Started {
		return gameerrors.ErrGameStarted
	}
	if len(g.Players) >= MaxPlayers {
		return gameerrors.ErrLobbyFull
	}
	if len(g.Players) == 0 {
		p.IsHost = true
	}
	g.Players = append(g.Players, p)
	g.logf("%s joined the lobby.", p.Name)
	return nil
}

// RemovePlayer removes the player with the given session id. Mid-round the
// turn index is repaired, round-end detection is re-run, and if the round
// continues the player now holding the turn is treated as freshly at a turn
// boundary (protection cleared, one card dealt).
func (g *Game) RemovePlayer(sid string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastActivity = time.Now()

	idx := -1
	for i, p := range g.Players {
		if p.SID == sid {
			idx = i
			break
		}
	}
	if idx == -1 {
		return gameerrors.ErrPlayerNotFound
	}

	removed := g.Players[idx]
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	g.logf("%s left the game.", removed.Name)

	if g.Started && !g.Over {
		if g.TurnIndex == idx {
			// The list shift-compacted, so the next player already occupies
			// this slot; only clamp if we fell off the end.
			if g.TurnIndex >= len(g.Players) {
				g.TurnIndex = 0
			}
		} else if g.TurnIndex > idx {
			g.TurnIndex--
		}

		g.checkRoundEnd()

		if !g.Over && len(g.Players) > 0 {
			current := g.Players[g.TurnIndex]
			current.IsProtected = false
			current.PrivateMessage = ""
			if len(g.Deck) > 0 {
				current.Draw(g.drawTop())
			} else {
				g.checkRoundEnd()
			}
		}
	}

	if removed.IsHost && len(g.Players) > 0 {
		g.Players[0].IsHost = true
		g.logf("%s is the new host.", g.Players[0].Name)
	}
	return nil
}

// GetPlayerBySID returns the player with the given session id, or nil.
func (g *Game) GetPlayerBySID(sid string) *Player {
	for _, p := range g.Players {
		if p.SID == sid {
			return p
		}
	}
	return nil
}

// StartGame begins the first round. Host-only enforcement is the caller's
// concern; the core only requires enough players.
func (g *Game) StartGame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastActivity = time.Now()

	if g.Started {
		return gameerrors.ErrGameStarted
	}
	if len(g.Players) < MinPlayers {
		return gameerrors.ErrNotEnoughPlayers
	}
	g.Started = true
	g.startRound()
	return nil
}

// startRound deals a fresh round: new shuffled deck, one burned card, one
// card per player and a second for the starting actor. Caller holds the lock.
func (g *Game) startRound() {
	g.Deck = buildDeck()
	rand.Shuffle(len(g.Deck), func(i, j int) {
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	})

	for _, p := range g.Players {
		p.ResetRound()
	}

	burned := g.drawTop()
	g.RemovedCard = &burned

	for _, p := range g.Players {
		p.Draw(g.drawTop())
	}

	// The player list may have shrunk since last round.
	if g.TurnIndex >= len(g.Players) {
		g.TurnIndex = 0
	}
	g.Players[g.TurnIndex].Draw(g.drawTop())

	g.Over = false
	g.RoundEndTime = time.Time{}
	g.LastAction = nil
	g.logf("A new round has started. Turn: %s", g.Players[g.TurnIndex].Name)
	slog.Debug("round started", "tag", "game", "lobby", g.LobbyID, "players", len(g.Players))
}

// drawTop removes and returns the top card of the deck. Caller holds the
// lock and guarantees the deck is non-empty.
func (g *Game) drawTop() Card {
	card := g.Deck[0]
	g.Deck = g.Deck[1:]
	return card
}

// nextTurn advances to the next non-eliminated player, clears their
// protection and private message, and deals them a card. Caller holds the
// lock. Does nothing when the round just ended.
func (g *Game) nextTurn() {
	if g.checkRoundEnd() {
		return
	}

	original := g.TurnIndex
	for {
		g.TurnIndex = (g.TurnIndex + 1) % len(g.Players)
		if !g.Players[g.TurnIndex].IsOut {
			break
		}
		if g.TurnIndex == original {
			break
		}
	}

	current := g.Players[g.TurnIndex]
	current.IsProtected = false
	current.PrivateMessage = ""

	if len(g.Deck) > 0 {
		current.Draw(g.drawTop())
	} else {
		// Normally unreachable: deck exhaustion ends the round above.
		g.checkRoundEnd()
	}
}

// PlayCard performs the central transition: the current actor plays the card
// at cardIndex, optionally against a target and (for the Guard) a guessed
// rank. Returns a human-readable result message on success.
func (g *Game) PlayCard(sid string, cardIndex int, targetSID string, guess int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastActivity = time.Now()

	player := g.getActor(sid)
	if player == nil {
		return "", gameerrors.ErrNotYourTurn
	}
	if cardIndex < 0 || cardIndex >= len(player.Hand) {
		return "", gameerrors.ErrInvalidCard
	}

	card := player.Hand[cardIndex]

	if mustPlayCountess(player.Hand) && card.Value != Countess {
		return "", gameerrors.ErrMustPlayCountess
	}
	if card.Value == Guard && guess != 0 && (guess < Priest || guess > Princess) {
		return "", gameerrors.ErrInvalidGuess
	}

	// An absent, eliminated or protected target never blocks the play; the
	// effect just fizzles.
	var target *Player
	if targetSID != "" {
		if t := g.GetPlayerBySID(targetSID); t != nil && !t.IsOut {
			target = t
		}
	}

	played, ok := player.Discard(cardIndex)
	if !ok {
		return "", gameerrors.ErrInvalidCard
	}
	player.Discarded = append(player.Discarded, played)
	g.logf("%s plays %s.", player.Name, played.Name)

	effectMsg := g.executeEffect(player, played, target, guess)
	if effectMsg != "" {
		g.logf("%s", effectMsg)
	}

	action := &LastAction{
		Actor:     player.Name,
		CardValue: played.Value,
		CardName:  played.Name,
		Result:    effectMsg,
	}
	if target != nil {
		action.Target = target.Name
	}
	g.LastAction = action

	if !g.checkRoundEnd() {
		g.nextTurn()
	}
	return "Card played.", nil
}

// getActor returns the player with the given sid only if the round is
// running and it is their turn. Caller holds the lock.
func (g *Game) getActor(sid string) *Player {
	if !g.Started || g.Over || len(g.Players) == 0 {
		return nil
	}
	player := g.GetPlayerBySID(sid)
	if player == nil || player != g.Players[g.TurnIndex] {
		return nil
	}
	return player
}

// mustPlayCountess reports whether the Countess rule forces the play: the
// hand holds the Countess together with the King or the Prince.
func mustPlayCountess(hand []Card) bool {
	hasCountess := false
	hasRoyal := false
	for _, c := range hand {
		switch c.Value {
		case Countess:
			hasCountess = true
		case Prince, King:
			hasRoyal = true
		}
	}
	return hasCountess && hasRoyal
}

// checkRoundEnd evaluates both termination conditions and, when one fires,
// finishes the round (scores, log, callback). Returns whether the round is
// over. Caller holds the lock.
func (g *Game) checkRoundEnd() bool {
	if g.Over {
		return true
	}

	var active []*Player
	for _, p := range g.Players {
		if !p.IsOut {
			active = append(active, p)
		}
	}

	switch {
	case len(active) <= 1:
		// Zero survivors is a valid degenerate outcome with no winner.
		g.endRound(active, EndReasonEliminations)
		return true
	case len(g.Deck) == 0:
		g.endRound(showdownWinners(active), EndReasonDeckEmpty)
		return true
	}
	return false
}

// showdownWinners resolves deck exhaustion: highest remaining hand rank
// wins; ties break on the sum of discarded ranks; remaining ties co-win.
func showdownWinners(active []*Player) []*Player {
	var winners []*Player
	best := -1
	for _, p := range active {
		if len(p.Hand) == 0 {
			continue
		}
		switch v := p.Hand[0].Value; {
		case v > best:
			best = v
			winners = []*Player{p}
		case v == best:
			winners = append(winners, p)
		}
	}

	if len(winners) <= 1 {
		return winners
	}

	bestSum := -1
	var final []*Player
	for _, w := range winners {
		switch sum := w.discardSum(); {
		case sum > bestSum:
			bestSum = sum
			final = []*Player{w}
		case sum == bestSum:
			final = append(final, w)
		}
	}
	return final
}

// endRound finishes the round: flags, timestamps, one point per winner, a
// summary log line and the OnRoundEnd callback. Caller holds the lock.
func (g *Game) endRound(winners []*Player, reason string) {
	g.Over = true
	g.RoundEndTime = time.Now()

	names := make([]string, 0, len(winners))
	sids := make([]string, 0, len(winners))
	for _, w := range winners {
		w.Score++
		names = append(names, w.Name)
		sids = append(sids, w.SID)
	}

	label := "nobody"
	if len(names) > 0 {
		label = strings.Join(names, ", ")
	}
	g.logf("ROUND OVER. Winners: %s", label)
	slog.Info("round over", "tag", "game", "lobby", g.LobbyID, "winners", label, "reason", reason)

	if g.OnRoundEnd != nil {
		g.OnRoundEnd(RoundResult{
			LobbyID:    g.LobbyID,
			Winners:    names,
			WinnerSIDs: sids,
			Players:    len(g.Players),
			EndReason:  reason,
			EndedAt:    g.RoundEndTime,
		})
	}
}

// TryAutoRestart deals a new round once the post-round delay has elapsed.
// Safe to call on every poll; it only acts when the gate is open.
func (g *Game) TryAutoRestart() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.Over || g.RoundEndTime.IsZero() || len(g.Players) == 0 {
		return
	}
	if time.Since(g.RoundEndTime) > g.RestartDelay {
		g.startRound()
	}
}

// logf appends a formatted entry to the bounded in-game log.
func (g *Game) logf(format string, args ...any) {
	g.Logs = append(g.Logs, fmt.Sprintf(format, args...))
	if len(g.Logs) > maxLogs {
		g.Logs = g.Logs[1:]
	}
}
