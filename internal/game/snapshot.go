package game

import (
	"github.com/ninecard/golf/internal/models"
)

// PlayerView is one seat as it appears in a gameState snapshot. Grids are
// sent in full, face-down cards included; hiding an opponent's hidden cards
// is a presentation concern, the server is the source of truth.
type PlayerView struct {
	Name      string        `json:"name"`
	CardCount int           `json:"cardCount"`
	Grid      []models.Card `json:"grid"`
	Connected bool          `json:"connected"`
	Ready     bool          `json:"ready"`
}

// GameState is the per-player snapshot broadcast after every mutating action.
// DrawnCard and the turn flags describe the receiving player only.
type GameState struct {
	Type               string         `json:"type"`
	RoomCode           string         `json:"roomCode"`
	Players            []PlayerView   `json:"players"`
	DrawPileCount      int            `json:"drawPileCount"`
	DiscardPile        []models.Card  `json:"discardPile"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	DrawnCard          *models.Card   `json:"drawnCard,omitempty"`
	DrawnFromDiscard   bool           `json:"drawnFromDiscard"`
	HasDrawnThisTurn   bool           `json:"hasDrawnThisTurn"`
	MustRevealCard     bool           `json:"mustRevealCard"`
	Status             string         `json:"status"`
	Scores             map[string]int `json:"scores"`
	RoundOver          bool           `json:"roundOver"`
	Winners            []string       `json:"winners,omitempty"`
	SelectionPhase     bool           `json:"selectionPhase"`
	Knocker            string         `json:"knocker,omitempty"`
	FinalRound         bool           `json:"finalRound"`
}

// stateFor builds the snapshot from one seat's perspective. Card slices are
// copied so the payload stays stable while it is marshaled off the room lock.
// Assumes lock is held.
func (r *Room) stateFor(p *models.Player) GameState {
	state := GameState{
		Type:               "gameState",
		RoomCode:           r.Code,
		Players:            make([]PlayerView, len(r.Players)),
		DrawPileCount:      len(r.DrawPile),
		DiscardPile:        append([]models.Card(nil), r.DiscardPile...),
		CurrentPlayerIndex: r.CurrentPlayerIndex,
		HasDrawnThisTurn:   p.Turn.Kind != models.TurnIdle,
		MustRevealCard:     p.Turn.Kind == models.TurnMustReveal,
		DrawnFromDiscard:   p.Turn.FromDiscard,
		Status:             r.Status,
		Scores:             make(map[string]int, len(r.Scores)),
		RoundOver:          r.Phase == PhaseRoundOver,
		Winners:            append([]string(nil), r.RoundWinners...),
		SelectionPhase:     r.Phase == PhaseSelection,
		Knocker:            r.Knocker,
		FinalRound:         r.Phase == PhaseFinalRound,
	}
	if p.Turn.Holding() {
		held := p.Turn.Held
		state.DrawnCard = &held
	}
	for name, s := range r.Scores {
		state.Scores[name] = s
	}
	for i, seat := range r.Players {
		state.Players[i] = PlayerView{
			Name:      seat.Name,
			CardCount: len(seat.Grid),
			Grid:      append([]models.Card(nil), seat.Grid...),
			Connected: seat.Connected,
			Ready:     seat.Ready,
		}
	}
	return state
}

// broadcastState sends each connected seat its own snapshot. Called only
// after a transition has fully completed. Assumes lock is held.
func (r *Room) broadcastState() {
	for _, p := range r.Players {
		if p.Connected {
			r.sendToPlayer(p, r.stateFor(p))
		}
	}
}
