package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ninecard/golf/internal/models"
)

// HandleAction routes a validated inbound action to the matching handler.
// Rejections come in two tiers: structurally impossible or out-of-turn
// actions are dropped silently, plausible player mistakes get an error event
// on the acting connection. Either way a rejected action mutates nothing.
func (r *Room) HandleAction(connID uuid.UUID, action models.Action) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByConnID(connID)
	if p == nil {
		return
	}

	switch action.Type {
	case models.ActionStartGame:
		r.handleStartGame(p)
		return
	case models.ActionSelectInitialCards:
		r.handleSelectInitialCards(p, action.CardIndices)
		return
	case models.ActionNewRound:
		r.handleNewRound(p)
		return
	}

	// Everything below is a turn action: the round must be live and the actor
	// must be the seat whose turn it is.
	if r.Phase != PhasePlaying && r.Phase != PhaseFinalRound {
		return
	}
	if r.Players[r.CurrentPlayerIndex] != p {
		return
	}

	switch action.Type {
	case models.ActionDrawFromPile:
		r.handleDrawFromPile(p)
	case models.ActionDrawFromDiscard:
		r.handleDrawFromDiscard(p)
	case models.ActionSwapCard:
		r.handleSwap(p, action.CardIndex)
	case models.ActionDiscardDrawn:
		r.handleDiscardDrawn(p)
	case models.ActionRevealCard:
		r.handleReveal(p, action.CardIndex)
	case models.ActionKnock:
		r.handleKnock(p)
	default:
		logger.Debugf("room %s: unknown action type %q from %s", r.Code, action.Type, p.Name)
	}
}

// handleStartGame begins the first round. Any seated player may start once at
// least two seats are filled.
func (r *Room) handleStartGame(p *models.Player) {
	if r.started() {
		r.sendError(p, "game has already started")
		return
	}
	if len(r.Players) < 2 {
		r.sendError(p, "need at least 2 players to start")
		return
	}
	r.logAction(p.Name, "startGame", nil)
	r.deal()
	r.broadcastState()
}

// handleNewRound re-deals after a finished round.
func (r *Room) handleNewRound(p *models.Player) {
	if r.Phase != PhaseRoundOver {
		return
	}
	r.logAction(p.Name, "newRound", nil)
	r.deal()
	r.broadcastState()
}

// handleSelectInitialCards records a player's three chosen reveal indices.
// The choice is buffered; all chosen cards across all seats flip at once when
// the last player submits, and play begins at seat 0.
func (r *Room) handleSelectInitialCards(p *models.Player, indices []int) {
	if r.Phase != PhaseSelection {
		return
	}
	if p.Ready {
		return
	}
	if !validSelection(indices) {
		r.sendError(p, "you must select exactly 3 different cards")
		return
	}
	p.InitialPicks = append([]int(nil), indices...)
	p.Ready = true
	r.logAction(p.Name, "selectInitialCards", map[string]interface{}{"indices": indices})

	for _, seat := range r.Players {
		if !seat.Ready {
			r.broadcastState()
			return
		}
	}

	for _, seat := range r.Players {
		for _, idx := range seat.InitialPicks {
			seat.Grid[idx].FaceUp = true
		}
	}
	r.Phase = PhasePlaying
	r.CurrentPlayerIndex = 0
	r.Status = fmt.Sprintf("%s's turn", r.Players[0].Name)
	logger.Infof("room %s: selection complete, play begins", r.Code)
	r.broadcastState()
}

// validSelection checks for exactly three distinct indices in range.
func validSelection(indices []int) bool {
	if len(indices) != 3 {
		return false
	}
	seen := make(map[int]bool, 3)
	for _, idx := range indices {
		if idx < 0 || idx >= models.GridSize || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// handleDrawFromPile pops the top of the draw pile into the player's hand,
// reshuffling the discard pile underneath it first if the pile ran dry.
func (r *Room) handleDrawFromPile(p *models.Player) {
	if p.Turn.Kind != models.TurnIdle {
		return
	}
	if len(r.DrawPile) == 0 {
		r.reshuffleDiscard()
	}
	if len(r.DrawPile) == 0 {
		r.sendError(p, "no cards available")
		return
	}
	card := r.DrawPile[len(r.DrawPile)-1]
	r.DrawPile = r.DrawPile[:len(r.DrawPile)-1]
	card.FaceUp = true
	p.Turn = models.TurnState{
		Kind: models.TurnHoldingDrawn,
		Held: card,
	}
	r.Status = fmt.Sprintf("%s drew from the pile", p.Name)
	r.logAction(p.Name, "drawFromPile", nil)
	r.broadcastState()
}

// handleDrawFromDiscard pops the discard top into the player's hand. A card
// taken this way can only be swapped into the grid, never discarded back.
func (r *Room) handleDrawFromDiscard(p *models.Player) {
	if p.Turn.Kind != models.TurnIdle {
		return
	}
	if len(r.DiscardPile) == 0 {
		return
	}
	card := r.DiscardPile[len(r.DiscardPile)-1]
	r.DiscardPile = r.DiscardPile[:len(r.DiscardPile)-1]
	p.Turn = models.TurnState{
		Kind:        models.TurnHoldingDrawn,
		Held:        card,
		FromDiscard: true,
	}
	r.Status = fmt.Sprintf("%s took the discard", p.Name)
	r.logAction(p.Name, "drawFromDiscard", nil)
	r.broadcastState()
}

// handleSwap places the held card face-up into the given grid slot and pushes
// the displaced card, flipped face-up, onto the discard pile.
func (r *Room) handleSwap(p *models.Player, idx int) {
	if !p.Turn.Holding() {
		return
	}
	if idx < 0 || idx >= len(p.Grid) {
		return
	}
	held := p.Turn.Held
	held.FaceUp = true
	displaced := p.Grid[idx]
	displaced.FaceUp = true
	p.Grid[idx] = held
	r.DiscardPile = append(r.DiscardPile, displaced)
	p.Turn = models.TurnState{}
	r.logAction(p.Name, "swapCard", map[string]interface{}{"index": idx})
	r.advanceTurn()
	r.broadcastState()
}

// handleDiscardDrawn throws the held card away. Only cards drawn from the
// pile may be discarded outright; if the player still has face-down cards
// they owe a reveal before their turn ends.
func (r *Room) handleDiscardDrawn(p *models.Player) {
	if !p.Turn.Holding() {
		return
	}
	if p.Turn.FromDiscard {
		r.sendError(p, "must swap when taking from discard pile")
		return
	}
	held := p.Turn.Held
	held.FaceUp = true
	r.DiscardPile = append(r.DiscardPile, held)
	r.logAction(p.Name, "discardDrawn", nil)

	if p.FaceDownCount() > 0 {
		p.Turn = models.TurnState{Kind: models.TurnMustReveal}
		r.Status = fmt.Sprintf("%s must reveal a card", p.Name)
		r.broadcastState()
		return
	}
	p.Turn = models.TurnState{}
	r.advanceTurn()
	r.broadcastState()
}

// handleReveal flips the chosen face-down card after a discard.
func (r *Room) handleReveal(p *models.Player, idx int) {
	if p.Turn.Kind != models.TurnMustReveal {
		return
	}
	if idx < 0 || idx >= len(p.Grid) {
		return
	}
	if p.Grid[idx].FaceUp {
		r.sendError(p, "that card is already face up")
		return
	}
	p.Grid[idx].FaceUp = true
	p.Turn = models.TurnState{}
	r.logAction(p.Name, "revealCard", map[string]interface{}{"index": idx})
	r.advanceTurn()
	r.broadcastState()
}

// handleKnock ends the round after one more turn for every other seat. The
// knock replaces the knocker's turn, so their own seat is seeded into the
// final-turn set immediately.
func (r *Room) handleKnock(p *models.Player) {
	if p.Turn.Kind != models.TurnIdle {
		return
	}
	if r.Phase == PhaseFinalRound {
		return
	}
	r.Knocker = p.Name
	r.Phase = PhaseFinalRound
	r.finalTurnTaken = map[int]bool{r.CurrentPlayerIndex: true}
	r.Status = fmt.Sprintf("%s knocked — final round!", p.Name)
	logger.Infof("room %s: %s knocked", r.Code, p.Name)
	r.logAction(p.Name, "knock", nil)
	r.advanceTurn()
	r.broadcastState()
}

// advanceTurn finishes the current seat's turn. During the final round it
// records the finished seat and ends the round once every seat has taken its
// last turn; otherwise it moves to the next seat and clears its flags.
// Assumes lock is held.
func (r *Room) advanceTurn() {
	if r.Phase == PhaseFinalRound {
		r.finalTurnTaken[r.CurrentPlayerIndex] = true
		if len(r.finalTurnTaken) == len(r.Players) {
			r.endRound()
			return
		}
	}
	r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % len(r.Players)
	next := r.Players[r.CurrentPlayerIndex]
	next.Turn = models.TurnState{}
	if r.Phase == PhaseFinalRound {
		r.Status = fmt.Sprintf("%s's last turn", next.Name)
	} else {
		r.Status = fmt.Sprintf("%s's turn", next.Name)
	}
}

// reshuffleDiscard rebuilds the draw pile from the discard pile, keeping the
// discard's top card in place. Everything underneath is flipped face-down and
// shuffled. No-op when there is nothing under the top card.
// Assumes lock is held.
func (r *Room) reshuffleDiscard() {
	if len(r.DiscardPile) <= 1 {
		return
	}
	top := r.DiscardPile[len(r.DiscardPile)-1]
	rest := make([]models.Card, len(r.DiscardPile)-1)
	copy(rest, r.DiscardPile[:len(r.DiscardPile)-1])
	for i := range rest {
		rest[i].FaceUp = false
	}
	r.DrawPile = Shuffle(rest)
	r.DiscardPile = []models.Card{top}
	logger.Infof("room %s: reshuffled %d discards into the draw pile", r.Code, len(rest))
	r.logAction("", "reshuffle", map[string]interface{}{"count": len(rest)})
}
