package game

// Player is one participant's round state. It is owned and mutated
// exclusively by the Game that holds it.
type Player struct {
	Name   string
	SID    string
	IsHost bool

	// Hand is ordered; card indices in PlayCard refer to positions here.
	Hand      []Card
	Discarded []Card

	IsOut       bool
	IsProtected bool

	// Score persists across rounds for the lifetime of the lobby.
	Score int

	// PrivateMessage is one-shot private info (e.g. a peeked hand); cleared
	// at the start of the player's next turn.
	PrivateMessage string
}

// NewPlayer creates a player with the given display name and session id.
func NewPlayer(name, sid string) *Player {
	return &Player{Name: name, SID: sid}
}

// Draw appends a card to the hand. Hand capacity is a game rule, not
// enforced here.
func (p *Player) Draw(card Card) {
	p.Hand = append(p.Hand, card)
}

// Discard removes and returns the card at the given hand position. The
// second return is false when the index is out of range.
func (p *Player) Discard(index int) (Card, bool) {
	if index < 0 || index >= len(p.Hand) {
		return Card{}, false
	}
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return card, true
}

// dropHand moves the player's whole hand onto the discard pile. Used when a
// player is eliminated so every card stays accounted for.
func (p *Player) dropHand() {
	p.Discarded = append(p.Discarded, p.Hand...)
	p.Hand = nil
}

// discardSum is the tie-break value at deck-exhaustion showdown.
func (p *Player) discardSum() int {
	sum := 0
	for _, c := range p.Discarded {
		sum += c.Value
	}
	return sum
}

// ResetRound clears all round-scoped state. Score is untouched.
func (p *Player) ResetRound() {
	p.Hand = nil
	p.Discarded = nil
	p.IsOut = false
	p.IsProtected = false
	p.PrivateMessage = ""
}
