package game

import "fmt"

// Card ranks. Identifiers follow the classic roles; the player-facing
// catalog strings below are Polish.
const (
	Guard    = 1
	Priest   = 2
	Baron    = 3
	Handmaid = 4
	Prince   = 5
	King     = 6
	Countess = 7
	Princess = 8
)

// DeckSize is the total number of cards in a freshly built deck.
const DeckSize = 16

// cardInfo is one row of the catalog: fixed name, rule text and deck
// quantity for a rank.
type cardInfo struct {
	name        string
	description string
	count       int
}

// catalog maps each legal rank to its content data. These strings are the
// reference card texts and must stay byte-for-byte identical.
var catalog = map[int]cardInfo{
	Guard:    {"Strażniczka", "Zgadnij kartę innego gracza (nie Strażniczka).", 5},
	Priest:   {"Kapłan", "Podglądnij rękę innego gracza.", 2},
	Baron:    {"Baron", "Porównaj ręce z innym graczem; niższa odpada.", 2},
	Handmaid: {"Pokojówka", "Ignoruj wszystkie efekty do twojej następnej tury.", 2},
	Prince:   {"Książę", "Wybierz gracza, aby odrzucił rękę.", 2},
	King:     {"Król", "Wymień się ręką z innym graczem.", 1},
	Countess: {"Hrabina", "Musi być odrzucona jeśli masz Króla lub Księcia.", 1},
	Princess: {"Księżniczka", "Jeśli odrzucisz tę kartę, odpadasz.", 1},
}

// Card is an immutable value object: rank plus content derived from the
// catalog at construction time.
type Card struct {
	Value       int    `json:"value"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCard builds a card of the given rank. Unknown ranks are an error,
// never a defaulted "unknown" card.
func NewCard(value int) (Card, error) {
	info, ok := catalog[value]
	if !ok {
		return Card{}, fmt.Errorf("unknown card rank %d", value)
	}
	return Card{Value: value, Name: info.name, Description: info.description}, nil
}

// CardName returns the catalog name for a rank.
func CardName(value int) (string, bool) {
	info, ok := catalog[value]
	return info.name, ok
}

// CardDescription returns the catalog rule text for a rank.
func CardDescription(value int) (string, bool) {
	info, ok := catalog[value]
	return info.description, ok
}

// CardCount returns how many copies of a rank a fresh deck contains.
func CardCount(value int) (int, bool) {
	info, ok := catalog[value]
	return info.count, ok
}

// buildDeck returns a new unshuffled 16-card deck from the catalog
// quantities.
func buildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for value := Guard; value <= Princess; value++ {
		card, err := NewCard(value)
		if err != nil {
			panic(err) // catalog is static; unreachable
		}
		for i := 0; i < catalog[value].count; i++ {
			deck = append(deck, card)
		}
	}
	return deck
}
