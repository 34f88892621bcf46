package handlers

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ninecard/golf/internal/game"
	"github.com/ninecard/golf/internal/models"
)

// GameServer bundles the room registry with the transport glue handed to it.
type GameServer struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger
}

// NewGameServer builds the room store and wires its outbound send function.
func NewGameServer(logger *logrus.Logger) *GameServer {
	gs := &GameServer{
		Rooms:  game.NewRoomStore(),
		Logger: logger,
	}
	gs.Rooms.SendFn = gs.sendToPlayer
	if sec, err := strconv.Atoi(os.Getenv("ROOM_GRACE_PERIOD_SEC")); err == nil && sec > 0 {
		gs.Rooms.GracePeriod = time.Duration(sec) * time.Second
	}
	return gs
}

// sendToPlayer marshals one outbound message and writes it asynchronously.
// It is called while the room lock is held, so the actual write happens off
// the lock with its own timeout.
func (gs *GameServer) sendToPlayer(p *models.Player, msg interface{}) {
	conn := p.Conn
	if conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		gs.Logger.Errorf("failed to marshal outbound message for %s: %v", p.Name, err)
		return
	}
	go func(conn *websocket.Conn, data []byte, name string) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			gs.Logger.Warnf("failed to write message to player %s: %v", name, err)
		}
	}(conn, data, p.Name)
}
