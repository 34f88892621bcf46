// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ninecard/golf/internal/game"
	"github.com/ninecard/golf/internal/models"
)

// ClientMessage is the wire format for every inbound WebSocket message. The
// room and player fields only matter for createRoom/joinRoom; once seated,
// the connection itself identifies the acting player.
type ClientMessage struct {
	Type        string `json:"type"`
	RoomCode    string `json:"roomCode,omitempty"`
	PlayerName  string `json:"playerName,omitempty"`
	CardIndex   int    `json:"cardIndex,omitempty"`
	CardIndices []int  `json:"cardIndices,omitempty"`
}

// WSHandler upgrades the connection and runs its read loop. Each connection
// gets a session ID; createRoom/joinRoom bind it to a seat, and every later
// action is routed into that room under the room's own lock.
func WSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		connID := uuid.New()
		logger.Infof("WebSocket connection %s established from %s", connID, r.RemoteAddr)

		room := readClientMessages(r.Context(), c, gs, connID, logger)

		// Read loop exited: connection closed or errored.
		if room != nil {
			room.HandleDisconnect(connID)
		}
		logger.Infof("WebSocket connection %s closed", connID)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readClientMessages consumes messages until the connection dies, returning
// the room the connection ended up seated in (if any) for disconnect cleanup.
func readClientMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, connID uuid.UUID, logger *logrus.Logger) *game.Room {
	var room *game.Room

	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket %s closed normally", connID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket %s context canceled", connID)
			} else {
				logger.Warnf("error reading from WebSocket %s: %v", connID, err)
			}
			return room
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON on connection %s: %v", connID, err)
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}
		logger.Debugf("connection %s: %s", connID, msg.Type)

		switch msg.Type {
		case "createRoom":
			if room != nil {
				sendWsError(ctx, c, "You are already in a room.")
				continue
			}
			if msg.RoomCode == "" || msg.PlayerName == "" {
				sendWsError(ctx, c, "Room code and player name are required.")
				continue
			}
			created, err := gs.Rooms.CreateRoom(msg.RoomCode, msg.PlayerName, c, connID)
			if err != nil {
				sendWsError(ctx, c, "A room with that code already exists.")
				continue
			}
			room = created
			sendWsMessage(ctx, c, map[string]interface{}{
				"type":     "roomCreated",
				"roomCode": created.Code,
			})

		case "joinRoom":
			if room != nil {
				sendWsError(ctx, c, "You are already in a room.")
				continue
			}
			if msg.RoomCode == "" || msg.PlayerName == "" {
				sendWsError(ctx, c, "Room code and player name are required.")
				continue
			}
			found, ok := gs.Rooms.GetRoom(msg.RoomCode)
			if !ok {
				sendWsError(ctx, c, "Room not found.")
				continue
			}
			if err := found.Join(msg.PlayerName, c, connID); err != nil {
				sendWsError(ctx, c, err.Error())
				continue
			}
			room = found

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			if room == nil {
				sendWsError(ctx, c, "Join a room first.")
				continue
			}
			room.HandleAction(connID, models.Action{
				Type:        msg.Type,
				CardIndex:   msg.CardIndex,
				CardIndices: msg.CardIndices,
			})
		}
	}
}

// sendWsMessage marshals a message and writes it with a short timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}

// sendWsError sends an error event to this connection only.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	sendWsMessage(ctx, c, map[string]string{
		"type":    "error",
		"message": message,
	})
}
