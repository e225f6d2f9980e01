package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

const (
	EventTaskCredited    = "task_credited"
	EventDepositCredited = "deposit_credited"
)

// Event is pushed to a connected mini-app session after a balance change so
// the UI can reconcile without polling.
type Event struct {
	Type          string `json:"type"`
	TaskID        string `json:"task_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Points        int    `json:"points"`
	Balance       int    `json:"balance"`
}

type Client struct {
	TelegramID int64
	Conn       *websocket.Conn
}

type push struct {
	telegramID int64
	event      Event
}

var clients = make(map[int64]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan push, 64)

// Notify queues an event for the user's live session, if any. Never blocks
// the caller: a full queue drops the event, the next full fetch reconciles.
func Notify(telegramID int64, event Event) {
	select {
	case events <- push{telegramID: telegramID, event: event}:
	default:
		log.Printf("Event queue full, dropping %s event for user %d", event.Type, telegramID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %d", client.TelegramID)
			clientsMu.Lock()
			clients[client.TelegramID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %d", client.TelegramID)
			clientsMu.Lock()
			if conn, ok := clients[client.TelegramID]; ok && conn == client.Conn {
				delete(clients, client.TelegramID)
			}
			clientsMu.Unlock()
		case p := <-events:
			clientsMu.RLock()
			conn, ok := clients[p.telegramID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(p.event); err != nil {
				log.Printf("Error pushing event to client %d: %v", p.telegramID, err)
				conn.Close()
				clientsMu.Lock()
				if current, ok := clients[p.telegramID]; ok && current == conn {
					delete(clients, p.telegramID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
