package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ninecard/golf/internal/models"
)

func card(suit, rank string) models.Card {
	return models.Card{Suit: suit, Rank: rank}
}

func TestCardValues(t *testing.T) {
	assert.Equal(t, 1, card(models.SuitSpades, "A").Value())
	assert.Equal(t, 7, card(models.SuitHearts, "7").Value())
	assert.Equal(t, 10, card(models.SuitClubs, "10").Value())
	assert.Equal(t, 10, card(models.SuitClubs, "J").Value())
	assert.Equal(t, 10, card(models.SuitClubs, "Q").Value())
	assert.Equal(t, 0, card(models.SuitDiamonds, "K").Value())
	assert.Equal(t, -2, models.Card{Suit: models.SuitJoker, Rank: models.RankJoker}.Value())
}

func TestScorePlainSum(t *testing.T) {
	// No line bonuses anywhere: total is the plain sum of values.
	grid := []models.Card{
		card(models.SuitSpades, "A"), card(models.SuitHearts, "3"), card(models.SuitDiamonds, "5"),
		card(models.SuitClubs, "7"), card(models.SuitSpades, "9"), card(models.SuitHearts, "J"),
		card(models.SuitDiamonds, "K"), card(models.SuitClubs, "2"), card(models.SuitSpades, "4"),
	}
	assert.Equal(t, 1+3+5+7+9+10+0+2+4, Score(grid))
}

func TestScoreThreeOfAKindRowWithKings(t *testing.T) {
	// Three 7s in row 0, six kings below: row 0 contributes 0 as three of a
	// kind, columns are {7,K,K} with no bonus, kings are worth 0 anyway.
	grid := []models.Card{
		card(models.SuitSpades, "7"), card(models.SuitHearts, "7"), card(models.SuitDiamonds, "7"),
		card(models.SuitSpades, "K"), card(models.SuitHearts, "K"), card(models.SuitDiamonds, "K"),
		card(models.SuitClubs, "K"), card(models.SuitSpades, "K"), card(models.SuitHearts, "K"),
	}
	assert.Equal(t, 0, Score(grid))
}

func TestScoreStraightFlushRow(t *testing.T) {
	grid := []models.Card{
		card(models.SuitSpades, "5"), card(models.SuitSpades, "6"), card(models.SuitSpades, "7"),
		card(models.SuitHearts, "2"), card(models.SuitDiamonds, "9"), card(models.SuitClubs, "4"),
		card(models.SuitClubs, "A"), card(models.SuitHearts, "J"), card(models.SuitDiamonds, "3"),
	}
	// Row 0 is -8 and its cards drop out of the plain sum.
	assert.Equal(t, -8+2+9+4+1+10+3, Score(grid))
}

func TestScoreOverlappingRowAndColumnBonuses(t *testing.T) {
	// Row 0 is a spade straight flush (-8); column 0 is three 5s of mixed
	// suits (0). Both bonuses apply and the shared spade 5 stays out of the
	// plain sum either way.
	grid := []models.Card{
		card(models.SuitSpades, "5"), card(models.SuitSpades, "6"), card(models.SuitSpades, "7"),
		card(models.SuitHearts, "5"), card(models.SuitHearts, "9"), card(models.SuitClubs, "2"),
		card(models.SuitDiamonds, "5"), card(models.SuitDiamonds, "J"), card(models.SuitClubs, "4"),
	}
	assert.Equal(t, -8+0+9+2+10+4, Score(grid))
}

func TestScoreStraightFlushOrderInsensitiveWithinLine(t *testing.T) {
	grid := []models.Card{
		card(models.SuitSpades, "7"), card(models.SuitSpades, "5"), card(models.SuitSpades, "6"),
		card(models.SuitHearts, "2"), card(models.SuitDiamonds, "9"), card(models.SuitClubs, "4"),
		card(models.SuitClubs, "A"), card(models.SuitHearts, "J"), card(models.SuitDiamonds, "3"),
	}
	assert.Equal(t, -8+2+9+4+1+10+3, Score(grid), "permuting cards within a row must not change the score")
}

func TestScoreNoWrapAroundStraight(t *testing.T) {
	// Q,K,A is not a straight: rank positions are fixed A,2,...,Q,K.
	grid := []models.Card{
		card(models.SuitSpades, "Q"), card(models.SuitSpades, "K"), card(models.SuitSpades, "A"),
		card(models.SuitHearts, "2"), card(models.SuitDiamonds, "9"), card(models.SuitClubs, "4"),
		card(models.SuitClubs, "3"), card(models.SuitHearts, "J"), card(models.SuitDiamonds, "6"),
	}
	assert.Equal(t, 10+0+1+2+9+4+3+10+6, Score(grid))
}

func TestScoreJokerBlocksLines(t *testing.T) {
	joker := models.Card{Suit: models.SuitJoker, Rank: models.RankJoker}
	grid := []models.Card{
		card(models.SuitSpades, "5"), card(models.SuitSpades, "6"), joker,
		card(models.SuitHearts, "5"), card(models.SuitDiamonds, "9"), card(models.SuitClubs, "4"),
		card(models.SuitDiamonds, "5"), card(models.SuitHearts, "J"), card(models.SuitClubs, "3"),
	}
	// Column 0 is still three of a kind; row 0 is not a straight flush
	// because of the joker, which scores -2 like any unmarked card.
	assert.Equal(t, 6+(-2)+9+4+10+3, Score(grid))
}

func TestWinnersSharesTies(t *testing.T) {
	players := []*models.Player{{Name: "ada"}, {Name: "bo"}, {Name: "cy"}}
	scores := map[string]int{"ada": 4, "bo": -2, "cy": -2}
	assert.Equal(t, []string{"bo", "cy"}, Winners(players, scores))

	scores = map[string]int{"ada": 1, "bo": 3, "cy": 5}
	assert.Equal(t, []string{"ada"}, Winners(players, scores))
}
