package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Leaderboard returns the top students by XP plus the caller's rank.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx := c.Request.Context()
	top, err := h.Users.TopStudents(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	resp := gin.H{"leaderboard": top}
	if userID, ok := getUserID(c); ok {
		if rank, err := h.Users.Rank(ctx, userID); err == nil {
			resp["my_rank"] = rank
		}
	}
	c.JSON(http.StatusOK, resp)
}
