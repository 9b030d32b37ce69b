package handlers

import (
	"net/http"

	"learningleague/internal/logger"

	"github.com/gin-gonic/gin"
)

// CompleteLesson dispatches a lesson completion. The reward is
// resolved from the catalog here so the command itself never blocks.
func (h *Handler) CompleteLesson(c *gin.Context) {
	lessonID := c.Param("id")

	s, ok := h.session(c)
	if !ok {
		return
	}

	reward, found := h.Catalog.LessonReward(lessonID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	snap, err := s.CompleteLesson(lessonID, reward)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CompleteGoal dispatches a goal completion, external or
// tutor-assigned. Custom goals additionally get their completion flag
// persisted so tutor views survive restarts.
func (h *Handler) CompleteGoal(c *gin.Context) {
	goalID := c.Param("id")

	s, ok := h.session(c)
	if !ok {
		return
	}

	reward, found := h.Catalog.GoalReward(goalID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	snap, err := s.CompleteGoal(goalID, reward)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	if _, isCustom := h.Catalog.CustomGoal(goalID); isCustom {
		h.Catalog.MarkCustomGoalCompleted(goalID)
		if err := h.GoalRepo.MarkCompleted(c.Request.Context(), goalID); err != nil {
			logger.Error("mark custom goal completed", "goal_id", goalID, "error", err)
		}
	}

	c.JSON(http.StatusOK, snap)
}

// PurchaseItem spends gems on a shop item. Penalized students are
// locked out of the shop until they redeem.
func (h *Handler) PurchaseItem(c *gin.Context) {
	itemID := c.Param("id")

	s, ok := h.session(c)
	if !ok {
		return
	}

	if s.Snapshot().IsPenalized() {
		c.JSON(http.StatusForbidden, gin.H{"error": "shop locked while in the penalty box"})
		return
	}

	snap, err := s.PurchaseItem(itemID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
