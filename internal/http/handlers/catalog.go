package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Catalog endpoints serve the static reference data loaded at startup.

func (h *Handler) Courses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"courses": h.Catalog.Courses()})
}

func (h *Handler) ShopItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.Catalog.ShopItems()})
}

func (h *Handler) Badges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badges": h.Catalog.Badges()})
}

func (h *Handler) Classrooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"classrooms": h.Catalog.Classrooms()})
}

// Goals returns the shared external goals plus the caller's assigned
// custom goals.
func (h *Handler) Goals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"external": h.Catalog.ExternalGoals(),
		"custom":   h.Catalog.CustomGoalsForStudent(userID),
	})
}
