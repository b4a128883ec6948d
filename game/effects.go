package game

import "fmt"

// effectFunc resolves the effect of one played card. The returned string is
// appended to the game log; empty means nothing noteworthy happened. The
// game lock is held for the whole resolution.
type effectFunc func(g *Game, actor *Player, target *Player, guess int) string

// effects is the static rank→effect table. Ranks without an entry (the
// Countess) have no effect on play.
var effects = map[int]effectFunc{
	Guard:    guardEffect,
	Priest:   priestEffect,
	Baron:    baronEffect,
	Handmaid: handmaidEffect,
	Prince:   princeEffect,
	King:     kingEffect,
	Princess: princessEffect,
}

// executeEffect dispatches to the rank's effect function. Caller holds the
// lock.
func (g *Game) executeEffect(actor *Player, card Card, target *Player, guess int) string {
	fn, ok := effects[card.Value]
	if !ok {
		return ""
	}
	return fn(g, actor, target, guess)
}

// guardEffect: guess the target's hand card; a correct guess eliminates
// them. Guesses are validated to 2-8 before resolution.
func guardEffect(g *Game, actor *Player, target *Player, guess int) string {
	if target == nil {
		return ""
	}
	if target.IsProtected {
		return fmt.Sprintf("%s is protected.", target.Name)
	}
	if guess == 0 {
		return ""
	}

	guessName, _ := CardName(guess)
	if len(target.Hand) > 0 && target.Hand[0].Value == guess {
		target.IsOut = true
		target.dropHand()
		return fmt.Sprintf("%s guessed right! %s holds %s and is out!", actor.Name, target.Name, guessName)
	}
	return fmt.Sprintf("%s guessed wrong. %s does not hold %s.", actor.Name, target.Name, guessName)
}

// priestEffect: privately reveal the target's hand card to the actor.
func priestEffect(g *Game, actor *Player, target *Player, _ int) string {
	if target == nil {
		return ""
	}
	if target.IsProtected {
		return fmt.Sprintf("%s is protected.", target.Name)
	}
	if len(target.Hand) == 0 {
		return fmt.Sprintf("%s has no card to reveal.", target.Name)
	}
	seen := target.Hand[0]
	actor.PrivateMessage = fmt.Sprintf("You peek at %s's hand: %s (%d)", target.Name, seen.Name, seen.Value)
	return fmt.Sprintf("%s peeks at %s's hand.", actor.Name, target.Name)
}

// baronEffect: compare hand cards; the lower rank is eliminated, equal
// ranks eliminate nobody.
func baronEffect(g *Game, actor *Player, target *Player, _ int) string {
	if target == nil {
		return ""
	}
	if target.IsProtected {
		return fmt.Sprintf("%s is protected.", target.Name)
	}
	if len(actor.Hand) == 0 || len(target.Hand) == 0 {
		return ""
	}

	actorVal := actor.Hand[0].Value
	targetVal := target.Hand[0].Value
	switch {
	case actorVal > targetVal:
		lostName, _ := CardName(targetVal)
		target.IsOut = true
		target.dropHand()
		return fmt.Sprintf("Baron: %s beats %s. %s held %s and is out.", actor.Name, target.Name, target.Name, lostName)
	case targetVal > actorVal:
		lostName, _ := CardName(actorVal)
		actor.IsOut = true
		actor.dropHand()
		return fmt.Sprintf("Baron: %s beats %s. %s held %s and is out.", target.Name, actor.Name, actor.Name, lostName)
	default:
		return "Baron: a tie. Nobody is out."
	}
}

// handmaidEffect: the actor is immune to targeted effects until the start
// of their next turn.
func handmaidEffect(g *Game, actor *Player, _ *Player, _ int) string {
	actor.IsProtected = true
	return fmt.Sprintf("%s is protected.", actor.Name)
}

// princeEffect: force the target (self when none chosen) to discard their
// hand card. Discarding the Princess eliminates them; otherwise they draw a
// replacement from the deck, or the burned card when the deck is empty.
func princeEffect(g *Game, actor *Player, target *Player, _ int) string {
	if target == nil {
		target = actor
	}
	if target.IsProtected && target != actor {
		return fmt.Sprintf("%s is protected.", target.Name)
	}
	if len(target.Hand) == 0 {
		return ""
	}

	discarded, _ := target.Discard(0)
	target.Discarded = append(target.Discarded, discarded)
	msg := fmt.Sprintf("%s discards %s.", target.Name, discarded.Name)

	if discarded.Value == Princess {
		target.IsOut = true
		return msg + fmt.Sprintf(" %s is out!", target.Name)
	}

	if len(g.Deck) > 0 {
		target.Draw(g.drawTop())
	} else if g.RemovedCard != nil {
		// The burned card enters play exactly once per round.
		target.Draw(*g.RemovedCard)
		g.RemovedCard = nil
	}
	return msg
}

// kingEffect: exchange hands with the target.
func kingEffect(g *Game, actor *Player, target *Player, _ int) string {
	if target == nil {
		return ""
	}
	if target.IsProtected {
		return fmt.Sprintf("%s is protected.", target.Name)
	}
	actor.Hand, target.Hand = target.Hand, actor.Hand
	return fmt.Sprintf("%s trades hands with %s.", actor.Name, target.Name)
}

// princessEffect: playing the Princess is itself fatal.
func princessEffect(g *Game, actor *Player, _ *Player, _ int) string {
	actor.IsOut = true
	actor.dropHand()
	return fmt.Sprintf("%s discards the Princess and is out!", actor.Name)
}
