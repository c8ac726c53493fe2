package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"campuslms/models"

	"github.com/gorilla/websocket"
)

// Hub fans submission events out to teachers watching a quiz live. It
// implements SubmissionNotifier for the attempt service.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// Client is one connected monitor watching a single quiz.
type Client struct {
	hub    *Hub
	socket *websocket.Conn
	send   chan []byte
	quizID string
	userID uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Monitor connected for quiz %s (user %d) - total monitors: %d", client.quizID, client.userID, h.clientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("Monitor disconnected for quiz %s (user %d) - total monitors: %d", client.quizID, client.userID, h.clientCount())
		}
	}
}

// NotifySubmission pushes a submitted attempt to every monitor of its quiz.
func (h *Hub) NotifySubmission(quizID string, attempt *models.QuizAttempt) {
	h.broadcastToQuiz(quizID, "attempt_submitted", map[string]interface{}{
		"attempt_id":   attempt.ID,
		"user_id":      attempt.UserID,
		"score":        attempt.Score,
		"submitted_at": attempt.SubmittedAt,
	})
}

func (h *Hub) broadcastToQuiz(quizID string, messageType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for client := range h.clients {
		if client.quizID != quizID {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("Dropping slow monitor for quiz %s (user %d)", quizID, client.userID)
		}
	}
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// RegisterClient attaches a websocket connection as a monitor for a quiz and
// starts its read/write pumps.
func (h *Hub) RegisterClient(conn *websocket.Conn, quizID string, userID uint) {
	client := &Client{
		hub:    h,
		socket: conn,
		send:   make(chan []byte, 16),
		quizID: quizID,
		userID: userID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; monitors are read-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}
