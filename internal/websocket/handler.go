package websocket

import (
	"context"
	"encoding/json"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

// ServeDashboard registers the connection for record events and blocks
// until the peer goes away.
func ServeDashboard(hub *Hub, c *websocket.Conn, key string) {
	client := &Client{Hub: hub, Conn: c, Key: key, Send: make(chan []byte, 256)}
	if !hub.add(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// TurnFunc answers one chat message. The result is sent as one JSON frame.
type TurnFunc func(ctx context.Context, text string) (interface{}, error)

// ErrorFrame is sent when a turn fails.
type ErrorFrame struct {
	Error string `json:"error"`
}

// ServeChat treats every text frame as one conversational turn. Turns on
// a connection run strictly one after another.
func ServeChat(c *websocket.Conn, turn TurnFunc, turnTimeout time.Duration, log logger.ILogger) {
	defer c.Close()
	c.SetReadLimit(maxMessageSize)

	for {
		msgType, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn(logger.ModuleWebsocket, "Chat connection closed", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		reply, err := turn(ctx, string(data))
		cancel()

		var out interface{} = reply
		if err != nil {
			out = ErrorFrame{Error: err.Error()}
		}

		frame, err := json.Marshal(out)
		if err != nil {
			log.Error(logger.ModuleWebsocket, "Failed to encode reply", map[string]interface{}{"error": err.Error()})
			return
		}

		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
