package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// GridSize is the number of card slots each player holds for the whole round.
// The grid is a fixed 3x3 matrix: indices 0-2 are row 0, 3-5 row 1, 6-8 row 2.
const GridSize = 9

// TurnKind is the closed set of per-turn sub-states a player can be in.
// Exactly one is active at a time, which makes illegal combinations (holding
// a drawn card while also owing a reveal) unrepresentable.
type TurnKind int

const (
	// TurnIdle means the player has not drawn this turn.
	TurnIdle TurnKind = iota
	// TurnHoldingDrawn means the player holds a drawn card not yet resolved.
	TurnHoldingDrawn
	// TurnMustReveal means the player discarded their drawn card and must now
	// flip one of their face-down grid cards before the turn advances.
	TurnMustReveal
)

// TurnState tracks the current player's progress through their turn.
// Held and FromDiscard are only meaningful while Kind is TurnHoldingDrawn.
type TurnState struct {
	Kind        TurnKind
	Held        Card
	FromDiscard bool
}

// Holding reports whether the player currently holds a drawn card.
func (t TurnState) Holding() bool {
	return t.Kind == TurnHoldingDrawn
}

// Player is one seat in a room. It persists across rounds and reconnections;
// the name is the stable identity, the connection rebinds on rejoin.
type Player struct {
	Name string `json:"name"`

	// Grid has exactly GridSize slots once dealt and is never resized.
	Grid []Card `json:"grid"`

	Turn      TurnState `json:"-"`
	Connected bool      `json:"connected"`

	// InitialPicks holds the three indices chosen during the selection phase,
	// buffered until every seat has picked so the flips happen atomically.
	InitialPicks []int `json:"-"`
	Ready        bool  `json:"ready"`

	Conn   *websocket.Conn `json:"-"`
	ConnID uuid.UUID       `json:"-"`
}

// FaceDownCount returns how many of the player's grid cards are still hidden.
func (p *Player) FaceDownCount() int {
	n := 0
	for _, c := range p.Grid {
		if !c.FaceUp {
			n++
		}
	}
	return n
}
