package handlers

import (
	"log"
	"net/http"

	"campuslms/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS checked at the HTTP layer
	},
}

// WSHandler upgrades teacher connections that watch live quiz submissions.
type WSHandler struct {
	hub         *services.Hub
	quizService *services.QuizService
}

func NewWSHandler(hub *services.Hub, quizService *services.QuizService) *WSHandler {
	return &WSHandler{hub: hub, quizService: quizService}
}

func (h *WSHandler) MonitorQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetTeacherQuiz(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.RegisterClient(conn, quiz.ID, userID)
}
