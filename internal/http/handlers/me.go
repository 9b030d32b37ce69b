package handlers

import (
	"net/http"

	"learningleague/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

// Starter avatars every account can use without a purchase.
var defaultAvatars = map[string]bool{
	"🦊": true, "🐼": true, "🦁": true, "🐯": true, "🐸": true, "🦄": true,
}

// SetAvatar changes the displayed avatar. Only the starter set or an
// owned avatar item is accepted.
func (h *Handler) SetAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.BindJSON(&req); err != nil || req.Avatar == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar required"})
		return
	}

	s, ok := h.session(c)
	if !ok {
		return
	}

	if !h.canUseAvatar(s.Snapshot(), req.Avatar) {
		c.JSON(http.StatusForbidden, gin.H{"error": "avatar not owned"})
		return
	}

	snap, err := s.SetAvatar(req.Avatar)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) canUseAvatar(u *domain.User, avatar string) bool {
	if defaultAvatars[avatar] {
		return true
	}
	for _, itemID := range u.Inventory {
		item, ok := h.Catalog.Item(itemID)
		if ok && item.Category == domain.ItemCategoryAvatar && item.Asset == avatar {
			return true
		}
	}
	return false
}
