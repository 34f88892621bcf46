package models

// Suit symbols. Jokers use SuitJoker for both suit and rank so they can never
// accidentally satisfy a flush or a rank match.
const (
	SuitSpades   = "♠"
	SuitHearts   = "♥"
	SuitDiamonds = "♦"
	SuitClubs    = "♣"
	SuitJoker    = "JOKER"
)

// RankJoker is the rank marker for the two jokers in the deck.
const RankJoker = "JOKER"

// Suits lists the four standard suits in deck construction order.
var Suits = []string{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// Ranks lists the thirteen standard ranks in deck construction order. The
// index of a rank in this slice is also its position for straight detection.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a plain value; it is copied, never shared, as it moves between a
// player's grid, the draw pile and the discard pile. FaceUp is the only field
// that changes over a card's lifetime, and it changes by replacing the value.
type Card struct {
	Suit   string `json:"suit"`
	Rank   string `json:"rank"`
	FaceUp bool   `json:"faceUp"`
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// Value returns the card's scoring value: A=1, 2..9 face value, 10/J/Q=10,
// K=0, joker=-2.
func (c Card) Value() int {
	switch c.Rank {
	case RankJoker:
		return -2
	case "K":
		return 0
	case "10", "J", "Q":
		return 10
	case "A":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	}
	return 0
}
