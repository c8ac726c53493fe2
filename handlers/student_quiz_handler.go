package handlers

import (
	"net/http"

	"campuslms/services"

	"github.com/gin-gonic/gin"
)

// StudentQuizHandler covers the routes students use to find, take and review quizzes.
type StudentQuizHandler struct {
	attemptService *services.AttemptService
}

func NewStudentQuizHandler(attemptService *services.AttemptService) *StudentQuizHandler {
	return &StudentQuizHandler{attemptService: attemptService}
}

func (h *StudentQuizHandler) AvailableQuizzes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizzes, err := h.attemptService.GetAvailableQuizzes(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *StudentQuizHandler) GetQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quiz, err := h.attemptService.GetQuizForStudent(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *StudentQuizHandler) StartAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.StartAttempt(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

func (h *StudentQuizHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.attemptService.SubmitAttempt(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

func (h *StudentQuizHandler) GetAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.GetAttempt(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

func (h *StudentQuizHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.attemptService.GetStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StudentQuizHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.attemptService.GetHistory(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
