package game

import "testing"

func TestStateForHidesOtherHands(t *testing.T) {
	g := startedGame(t, "Ala", "Bartek")
	actor := current(g)
	other := otherThan(g, actor)

	msg := g.StateFor(actor.SID)

	if len(msg.Hand) != len(actor.Hand) {
		t.Errorf("own hand has %d cards in view; want %d", len(msg.Hand), len(actor.Hand))
	}
	if msg.DeckSize != len(g.Deck) {
		t.Errorf("deck size %d; want %d", msg.DeckSize, len(g.Deck))
	}
	if !msg.RemovedCard {
		t.Error("burned card presence not reported")
	}
	if msg.TurnPlayer != actor.Name {
		t.Errorf("turn player %q; want %q", msg.TurnPlayer, actor.Name)
	}

	for _, pv := range msg.Players {
		if pv.Name == other.Name && pv.HandSize != len(other.Hand) {
			t.Errorf("opponent hand size %d; want %d", pv.HandSize, len(other.Hand))
		}
		if pv.Name == actor.Name && !pv.You {
			t.Error("requesting player not marked as you")
		}
	}
}

func TestStateForUnknownSession(t *testing.T) {
	g := startedGame(t, "Ala", "Bartek")

	msg := g.StateFor("stranger")
	if len(msg.Hand) != 0 {
		t.Error("stranger received a hand")
	}
	if msg.PrivateMessage != "" {
		t.Error("stranger received a private message")
	}
	for _, pv := range msg.Players {
		if pv.You {
			t.Error("stranger matched a player view")
		}
	}
}

func TestStateLogsTail(t *testing.T) {
	g := startedGame(t, "Ala", "Bartek")
	for i := 0; i < 40; i++ {
		g.logf("entry %d", i)
	}

	msg := g.StateFor(g.Players[0].SID)
	if len(msg.Logs) != 15 {
		t.Fatalf("view shows %d log lines; want 15", len(msg.Logs))
	}
	if msg.Logs[len(msg.Logs)-1] != "entry 39" {
		t.Errorf("newest log line = %q", msg.Logs[len(msg.Logs)-1])
	}
}
