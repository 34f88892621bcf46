package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ninecard/golf/internal/cache"
	"github.com/ninecard/golf/internal/database"
	"github.com/ninecard/golf/internal/models"
)

var logger = logrus.StandardLogger()

// MaxPlayers caps the number of seats in a room before the game starts.
const MaxPlayers = 4

// DefaultGracePeriod is how long a fully disconnected room survives before
// it is deleted, unless someone rejoins first.
const DefaultGracePeriod = 5 * time.Minute

// Phase is the room's position in the per-round state machine. Rooms cycle
// Dealing -> Selection -> Playing -> FinalRound -> RoundOver -> Dealing;
// PhaseLobby is the pre-start seating state.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseDealing
	PhaseSelection
	PhasePlaying
	PhaseFinalRound
	PhaseRoundOver
)

func (ph Phase) String() string {
	switch ph {
	case PhaseLobby:
		return "lobby"
	case PhaseDealing:
		return "dealing"
	case PhaseSelection:
		return "selection"
	case PhasePlaying:
		return "playing"
	case PhaseFinalRound:
		return "finalRound"
	case PhaseRoundOver:
		return "roundOver"
	}
	return "unknown"
}

// Room holds the entire state for one table. Every inbound action addressed
// to the room runs to completion under Mu; piles and grids are mutated
// non-atomically across fields, so nothing may observe a half-applied action.
type Room struct {
	Code    string
	Players []*models.Player

	// DrawPile and DiscardPile are stacks with the top at the end of the
	// slice. The discard top is always face-up.
	DrawPile    []models.Card
	DiscardPile []models.Card

	CurrentPlayerIndex int
	Phase              Phase
	Knocker            string
	Scores             map[string]int
	RoundWinners       []string
	Status             string

	// finalTurnTaken records which seat indices have completed their one
	// post-knock turn. Only meaningful during PhaseFinalRound.
	finalTurnTaken map[int]bool

	Mu sync.Mutex

	// SendToPlayerFn delivers one outbound message to one seat. Assigned by
	// the transport layer; game logic never touches websockets directly.
	SendToPlayerFn func(p *models.Player, msg interface{})

	// OnEmpty is called when the room should be removed from its store,
	// either immediately (last pre-start leaver) or after the grace period.
	OnEmpty func(code string)

	GracePeriod time.Duration
	deleteTimer *time.Timer
	actionIndex int
}

// NewRoom builds an empty room in the lobby phase.
func NewRoom(code string) *Room {
	return &Room{
		Code:           code,
		Phase:          PhaseLobby,
		Scores:         make(map[string]int),
		finalTurnTaken: make(map[int]bool),
		GracePeriod:    DefaultGracePeriod,
		Status:         "Waiting for players...",
	}
}

// sendToPlayer delivers a message to one seat if a transport is attached.
// Assumes lock is held.
func (r *Room) sendToPlayer(p *models.Player, msg interface{}) {
	if r.SendToPlayerFn == nil || !p.Connected {
		return
	}
	r.SendToPlayerFn(p, msg)
}

// sendError sends an explicit user-facing error to the acting seat only.
// Assumes lock is held.
func (r *Room) sendError(p *models.Player, message string) {
	r.sendToPlayer(p, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

// broadcast sends a message to every connected seat. Assumes lock is held.
func (r *Room) broadcast(msg interface{}) {
	for _, p := range r.Players {
		r.sendToPlayer(p, msg)
	}
}

// playerNames returns the seat names in turn order. Assumes lock is held.
func (r *Room) playerNames() []string {
	names := make([]string, len(r.Players))
	for i, p := range r.Players {
		names[i] = p.Name
	}
	return names
}

// playerByConnID resolves the seat bound to a connection. Assumes lock is held.
func (r *Room) playerByConnID(connID uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// started reports whether the current round (or any round) has begun.
// Assumes lock is held.
func (r *Room) started() bool {
	return r.Phase != PhaseLobby
}

// Join seats a new player, or rebinds a disconnected seat with the same name
// (reconnection). The returned error is delivered to the joining connection
// by the transport layer.
func (r *Room) Join(name string, conn *websocket.Conn, connID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	for _, p := range r.Players {
		if p.Name != name {
			continue
		}
		if p.Connected {
			return fmt.Errorf("name %q is already taken in room %s", name, r.Code)
		}
		// Reconnection: rebind the connection, keep grid, flags and turn
		// position untouched.
		p.Conn = conn
		p.ConnID = connID
		p.Connected = true
		r.cancelDeletion()
		logger.Infof("room %s: player %s reconnected", r.Code, name)
		r.logAction(name, "playerReconnected", nil)
		r.broadcast(map[string]interface{}{
			"type":       "playerReconnected",
			"playerName": name,
		})
		r.broadcastState()
		return nil
	}

	if r.started() {
		return fmt.Errorf("game in room %s has already started", r.Code)
	}
	if len(r.Players) >= MaxPlayers {
		return fmt.Errorf("room %s is full", r.Code)
	}

	p := &models.Player{
		Name:      name,
		Connected: true,
		Conn:      conn,
		ConnID:    connID,
	}
	r.Players = append(r.Players, p)
	logger.Infof("room %s: player %s joined (%d seated)", r.Code, name, len(r.Players))
	r.logAction(name, "playerJoined", nil)
	r.broadcast(map[string]interface{}{
		"type":    "playerJoined",
		"players": r.playerNames(),
	})
	r.broadcastState()
	return nil
}

// HandleDisconnect processes a dropped connection. Before the game starts the
// seat is removed outright; afterwards it is preserved so the player can
// rejoin by name.
func (r *Room) HandleDisconnect(connID uuid.UUID) {
	if r.removeConn(connID) && r.OnEmpty != nil {
		r.OnEmpty(r.Code)
	}
}

// removeConn does the locked part of a disconnect and reports whether the
// room emptied out before the game started. The OnEmpty callback must run
// off-lock: the store's DeleteRoom calls Stop, which takes the room lock.
func (r *Room) removeConn(connID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByConnID(connID)
	if p == nil || !p.Connected {
		return false
	}
	p.Connected = false
	p.Conn = nil
	logger.Infof("room %s: player %s disconnected", r.Code, p.Name)
	r.logAction(p.Name, "playerDisconnected", nil)

	if !r.started() {
		for i, seat := range r.Players {
			if seat == p {
				r.Players = append(r.Players[:i], r.Players[i+1:]...)
				break
			}
		}
		if len(r.Players) == 0 {
			return true
		}
		r.broadcast(map[string]interface{}{
			"type":    "playerLeft",
			"players": r.playerNames(),
		})
		r.broadcastState()
		return false
	}

	seats := make([]map[string]interface{}, len(r.Players))
	for i, seat := range r.Players {
		seats[i] = map[string]interface{}{
			"name":         seat.Name,
			"disconnected": !seat.Connected,
		}
	}
	r.broadcast(map[string]interface{}{
		"type":       "playerDisconnected",
		"playerName": p.Name,
		"players":    seats,
	})
	r.broadcastState()

	if r.connectedCount() == 0 {
		r.scheduleDeletion()
	}
	return false
}

// connectedCount returns the number of live connections. Assumes lock is held.
func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// scheduleDeletion starts the grace timer for a fully disconnected room.
// Assumes lock is held.
func (r *Room) scheduleDeletion() {
	if r.deleteTimer != nil {
		r.deleteTimer.Stop()
	}
	logger.Infof("room %s: all players disconnected, deleting in %s unless someone rejoins", r.Code, r.GracePeriod)
	r.deleteTimer = time.AfterFunc(r.GracePeriod, func() {
		r.Mu.Lock()
		empty := r.connectedCount() == 0
		r.Mu.Unlock()
		if empty && r.OnEmpty != nil {
			logger.Infof("room %s: grace period expired, removing room", r.Code)
			r.OnEmpty(r.Code)
		}
	})
}

// cancelDeletion stops a pending grace timer after a rejoin. Assumes lock is
// held.
func (r *Room) cancelDeletion() {
	if r.deleteTimer != nil {
		r.deleteTimer.Stop()
		r.deleteTimer = nil
	}
}

// Stop releases the room's timers when it is removed from the store.
func (r *Room) Stop() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.cancelDeletion()
}

// deal starts a fresh round: new shuffled deck, nine face-down cards per seat
// in turn order, one card flipped to seed the discard pile, all per-turn and
// per-round state reset. Leaves the room in the selection phase.
// Assumes lock is held.
func (r *Room) deal() {
	r.Phase = PhaseDealing

	deck := Shuffle(NewDeck())
	for _, p := range r.Players {
		p.Grid = make([]models.Card, 0, models.GridSize)
		for i := 0; i < models.GridSize; i++ {
			card := deck[len(deck)-1]
			deck = deck[:len(deck)-1]
			p.Grid = append(p.Grid, card)
		}
		p.Turn = models.TurnState{}
		p.Ready = false
		p.InitialPicks = nil
	}

	first := deck[len(deck)-1]
	deck = deck[:len(deck)-1]
	first.FaceUp = true
	r.DrawPile = deck
	r.DiscardPile = []models.Card{first}

	r.CurrentPlayerIndex = 0
	r.Knocker = ""
	r.finalTurnTaken = make(map[int]bool)
	r.Scores = make(map[string]int)
	r.RoundWinners = nil

	r.Phase = PhaseSelection
	r.Status = "Choose 3 cards to reveal"
	logger.Infof("room %s: dealt new round to %d players", r.Code, len(r.Players))
	r.logAction("", "roundDealt", map[string]interface{}{"players": len(r.Players)})
}

// endRound flips every card face-up, scores all grids and declares the
// winner(s). The room stays in PhaseRoundOver until a newRound request.
// Assumes lock is held.
func (r *Room) endRound() {
	for _, p := range r.Players {
		for i := range p.Grid {
			p.Grid[i].FaceUp = true
		}
		p.Turn = models.TurnState{}
		r.Scores[p.Name] = Score(p.Grid)
	}
	r.RoundWinners = Winners(r.Players, r.Scores)
	r.Phase = PhaseRoundOver

	switch len(r.RoundWinners) {
	case 0:
		r.Status = "Round over"
	case 1:
		r.Status = fmt.Sprintf("Round over — %s wins!", r.RoundWinners[0])
	default:
		r.Status = fmt.Sprintf("Round over — tie between %s", joinNames(r.RoundWinners))
	}
	logger.Infof("room %s: round over, scores %v, winners %v", r.Code, r.Scores, r.RoundWinners)
	r.logAction("", "roundOver", map[string]interface{}{
		"scores":  r.Scores,
		"winners": r.RoundWinners,
	})

	// Fire-and-forget archive write; the room never reads it back.
	scores := make(map[string]int, len(r.Scores))
	for name, s := range r.Scores {
		scores[name] = s
	}
	winners := append([]string(nil), r.RoundWinners...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordRoundResult(ctx, r.Code, scores, winners); err != nil {
			logger.Warnf("room %s: failed to archive round result: %v", r.Code, err)
		}
	}()
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// logAction publishes an action record to the historian queue. Records are
// pushed asynchronously and dropped when Redis is not configured.
// Assumes lock is held.
func (r *Room) logAction(actor, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.RoomActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		Actor:       actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.RoomActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			logger.Warnf("room %s: failed to publish action %d: %v", rec.RoomCode, rec.ActionIndex, err)
		}
	}(rec)
}
