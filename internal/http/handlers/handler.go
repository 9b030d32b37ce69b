package handlers

import (
	"errors"
	"net/http"

	"learningleague/internal/catalog"
	"learningleague/internal/domain"
	"learningleague/internal/repository"
	"learningleague/internal/store"
	"learningleague/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	Users    *repository.UserRepository
	GoalRepo *repository.GoalRepository
	Notes    *repository.NoteRepository
	Catalog  *catalog.Catalog
	Sessions *store.Manager
	Hub      *ws.Hub
}

func NewHandler(db *pgxpool.Pool, cat *catalog.Catalog, sessions *store.Manager, hub *ws.Hub) *Handler {
	return &Handler{
		DB:       db,
		Users:    repository.NewUserRepository(db),
		GoalRepo: repository.NewGoalRepository(db),
		Notes:    repository.NewNoteRepository(db),
		Catalog:  cat,
		Sessions: sessions,
		Hub:      hub,
	}
}

// getUserID извлекает user_id из контекста Gin (set by JWT middleware)
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	uid, ok := uidVal.(int64)
	return uid, ok
}

// session returns the caller's live session store, starting one if the
// token outlived the in-memory session (server restart, eviction).
func (h *Handler) session(c *gin.Context) (*store.Store, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	s, err := h.Sessions.StartSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		}
		return nil, false
	}
	return s, true
}

// writeDomainError maps command sentinels to HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyOwned):
		c.JSON(http.StatusConflict, gin.H{"error": "already owned"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient gems"})
	case errors.Is(err, domain.ErrInvalidReward):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward"})
	case errors.Is(err, domain.ErrNotStudent):
		c.JSON(http.StatusForbidden, gin.H{"error": "students only"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
