package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campuslms/services"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (h *AttendanceHandler) OpenSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.attendanceService.OpenSession(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *AttendanceHandler) ToggleSession(c *gin.Context) {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.attendanceService.ToggleSession(sessionID, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AttendanceHandler) MarkPresent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return
	}

	record, err := h.attendanceService.MarkPresent(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *AttendanceHandler) CourseSessions(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		return
	}

	sessions, err := h.attendanceService.GetCourseSessions(courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *AttendanceHandler) MonthlySummary(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}

	summary, err := h.attendanceService.GetMonthlySummary(courseID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AttendanceHandler) MonthlySummaryCSV(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}

	summary, err := h.attendanceService.GetMonthlySummary(courseID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%d_%d-%02d.csv", courseID, year, int(month))
	writeCSV(c, filename, services.AttendanceCSV(summary))
}

// monthQuery reads year/month query params, defaulting to the current month.
func monthQuery(c *gin.Context) (int, time.Month, bool) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return 0, 0, false
		}
		month = time.Month(v)
	}
	return year, month, true
}
