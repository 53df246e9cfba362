package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bell-board/backend/internal/display"
	ws "github.com/bell-board/backend/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Displays are served from the same box, often by IP.
		return true
	},
}

// WebSocketUpgrade returns a handler that upgrades HTTP connections to
// WebSocket. A new display immediately receives the current snapshot.
func WebSocketUpgrade(hub *ws.Hub, board *display.Board, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := ws.NewClient(hub)
		hub.Register(client)

		if data, err := ws.NewMessage(ws.TypeStatusTick, board.Snapshot()).JSON(); err == nil {
			client.Enqueue(data)
		}

		l := logger.With().Str("client", client.ID()).Logger()
		go writePump(conn, client)
		go readPump(conn, client, hub, board, l)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func writePump(conn *websocket.Conn, client *ws.Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps commands from the WebSocket connection to the board.
func readPump(conn *websocket.Conn, client *ws.Client, hub *ws.Hub, board *display.Board, logger zerolog.Logger) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(65536)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Msg("websocket read error")
			}
			break
		}

		if reply := handleClientMessage(message, board, logger); reply != nil {
			if data, err := reply.JSON(); err == nil && !client.Enqueue(data) {
				logger.Debug().Str("type", string(reply.Type)).Msg("reply dropped, client gone or busy")
			}
		}
	}
}

// handleClientMessage processes one client command and returns the reply,
// if any.
func handleClientMessage(message []byte, board *display.Board, logger zerolog.Logger) *ws.Message {
	var cmd ws.Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		reply := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: "bad_message", Message: "invalid JSON"})
		return &reply
	}

	switch cmd.Type {
	case ws.TypePing:
		reply := ws.NewMessage(ws.TypePong, nil)
		return &reply

	case ws.TypeActivity:
		var payload ws.ActivityPayload
		if len(cmd.Payload) > 0 {
			if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
				logger.Debug().Err(err).Msg("malformed activity payload")
			}
		}
		logger.Debug().Str("kind", payload.Kind).Msg("display activity")
		board.Activity()
		return nil

	default:
		reply := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:         "unknown_type",
			Message:      "unsupported message type",
			OriginalType: string(cmd.Type),
		})
		return &reply
	}
}
