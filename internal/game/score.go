package game

import (
	"sort"

	"github.com/ninecard/golf/internal/models"
)

// lines are the six fixed index groups evaluated for bonuses: the three rows
// first, then the three columns.
var lines = [6][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
}

const straightFlushBonus = -8

// rankPos maps a rank to its position in the fixed A,2,...,10,J,Q,K order.
func rankPos(rank string) int {
	for i, r := range models.Ranks {
		if r == rank {
			return i
		}
	}
	return -1
}

// isStraightFlush reports whether three cards share a suit, contain no joker,
// and have three consecutive rank positions.
func isStraightFlush(a, b, c models.Card) bool {
	if a.IsJoker() || b.IsJoker() || c.IsJoker() {
		return false
	}
	if a.Suit != b.Suit || b.Suit != c.Suit {
		return false
	}
	pos := []int{rankPos(a.Rank), rankPos(b.Rank), rankPos(c.Rank)}
	sort.Ints(pos)
	return pos[1] == pos[0]+1 && pos[2] == pos[1]+1
}

// isThreeOfAKind reports whether three cards share a rank and none is a joker.
func isThreeOfAKind(a, b, c models.Card) bool {
	if a.IsJoker() || b.IsJoker() || c.IsJoker() {
		return false
	}
	return a.Rank == b.Rank && b.Rank == c.Rank
}

// Score computes the round score for a 9-card grid. Each of the six lines is
// evaluated independently: a straight flush contributes -8, three of a kind
// contributes 0, and every card covered by at least one such line is excluded
// from the plain sum. A card sitting in both a bonus row and a bonus column
// earns both bonuses; the double count is part of the rules.
func Score(grid []models.Card) int {
	total := 0
	scored := [models.GridSize]bool{}

	for _, line := range lines {
		a, b, c := grid[line[0]], grid[line[1]], grid[line[2]]
		switch {
		case isStraightFlush(a, b, c):
			total += straightFlushBonus
		case isThreeOfAKind(a, b, c):
			// contributes 0, but still shields its cards from the plain sum
		default:
			continue
		}
		for _, idx := range line {
			scored[idx] = true
		}
	}

	for i, c := range grid {
		if !scored[i] {
			total += c.Value()
		}
	}
	return total
}

// Winners returns every player name tied for the minimum score, in the order
// given. Ties share the win.
func Winners(players []*models.Player, scores map[string]int) []string {
	if len(players) == 0 {
		return nil
	}
	best := 0
	first := true
	for _, p := range players {
		s, ok := scores[p.Name]
		if !ok {
			continue
		}
		if first || s < best {
			best = s
			first = false
		}
	}
	var winners []string
	for _, p := range players {
		if s, ok := scores[p.Name]; ok && s == best {
			winners = append(winners, p.Name)
		}
	}
	return winners
}
