package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"

	"campuslms/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds to HTTP statuses. Errors outside the
// taxonomy are server-side failures that committed nothing; callers may retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error, safe to retry"})
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID.(uint), true
}

// writeCSV streams a table as a CSV attachment.
func writeCSV(c *gin.Context, filename string, records [][]string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	w := csv.NewWriter(c.Writer)
	if err := w.WriteAll(records); err != nil {
		respondError(c, err)
	}
}
