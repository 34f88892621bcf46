package game

import (
	"math/rand"
	"time"

	"github.com/ninecard/golf/internal/models"
)

// DeckSize is 13 ranks x 4 suits plus 2 jokers.
const DeckSize = 54

// NewDeck builds all 54 cards face-down in deterministic construction order:
// the four suits each with thirteen ranks, then the two jokers.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			deck = append(deck, models.Card{Suit: suit, Rank: rank})
		}
	}
	for i := 0; i < 2; i++ {
		deck = append(deck, models.Card{Suit: models.SuitJoker, Rank: models.RankJoker})
	}
	return deck
}

// Shuffle returns a uniformly random permutation of cards without mutating
// its input.
func Shuffle(cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
