package handlers

import (
	"log"
	"strconv"

	hub "github.com/beinghouse/miniapp-backend/websocket"
	"github.com/gofiber/contrib/websocket"
)

// ServeWs keeps a mini-app session subscribed to its balance events. The
// first message must identify the user; afterwards the hub owns the writes
// and this loop only watches for disconnect.
func ServeWs(c *websocket.Conn) {
	type AuthMessage struct {
		Type       string `json:"type"`
		TelegramID string `json:"telegram_id"`
	}

	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message, error: %v", err)
		_ = c.WriteJSON(map[string]string{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	telegramID, err := strconv.ParseInt(authMsg.TelegramID, 10, 64)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid telegram_id %q", authMsg.TelegramID)
		_ = c.WriteJSON(map[string]string{"error": "Invalid telegram_id"})
		c.Close()
		return
	}

	client := &hub.Client{TelegramID: telegramID, Conn: c}
	hub.Register <- client
	defer func() {
		hub.Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
