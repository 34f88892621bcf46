package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/ninecard/golf/internal/models"
)

// RoomStore owns every live room, keyed by room code. Insert on create,
// remove on empty or grace timeout; all per-room mutation happens under the
// room's own mutex, the store lock only guards the map.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// SendFn is copied onto every created room so game logic can deliver
	// outbound messages without knowing about websockets.
	SendFn func(p *models.Player, msg interface{})

	// GracePeriod overrides the per-room disconnect grace period when > 0.
	GracePeriod time.Duration
}

// NewRoomStore returns an empty in-memory room registry.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom registers a new room under code with its creator already
// seated. Seating happens before the room is published in the map, so a
// racing join can never see a creatorless room. Fails if the code is taken.
func (s *RoomStore) CreateRoom(code, playerName string, conn *websocket.Conn, connID uuid.UUID) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[code]; exists {
		return nil, fmt.Errorf("room %s already exists", code)
	}
	r := NewRoom(code)
	r.SendToPlayerFn = s.SendFn
	r.OnEmpty = s.DeleteRoom
	if s.GracePeriod > 0 {
		r.GracePeriod = s.GracePeriod
	}
	if err := r.Join(playerName, conn, connID); err != nil {
		return nil, err
	}
	s.rooms[code] = r
	return r, nil
}

// GetRoom looks up a room by code.
func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

// DeleteRoom drops a room from the registry and stops its timers.
func (s *RoomStore) DeleteRoom(code string) {
	s.mu.Lock()
	r, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()
	if ok {
		r.Stop()
	}
}

// RoomSummary is one row in the public room listing.
type RoomSummary struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	Started     bool   `json:"started"`
}

// ListRooms returns a point-in-time summary of every room.
func (s *RoomStore) ListRooms() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Mu.Lock()
		out = append(out, RoomSummary{
			Code:        r.Code,
			PlayerCount: len(r.Players),
			Started:     r.started(),
		})
		r.Mu.Unlock()
	}
	return out
}
