package handlers

import (
	"errors"
	"net/http"

	"learningleague/internal/auth"
	"learningleague/internal/domain"
	"learningleague/internal/logger"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Login verifies credentials, issues a token and starts the session.
// The login itself is the first command: streak update, weekly window
// check and (on Thu-Sat) the engagement checkpoint all run here before
// the first snapshot goes back to the client.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Name == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and password required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	s, err := h.Sessions.StartSession(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	firstLogin := s.Snapshot().LastLoginDate == nil

	if _, err := s.RecordLogin(); err != nil {
		logger.Error("login: record login", "user_id", user.ID, "error", err)
	}
	snap, err := s.SessionStart()
	if err != nil {
		logger.Error("login: session start", "user_id", user.ID, "error", err)
		snap = s.Snapshot()
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"user":        snap,
		"first_login": firstLogin,
	})
}

// Logout drops the in-memory session and closes the snapshot feed.
// Persisted state is untouched.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.Sessions.EndSession(userID)
	h.Hub.CloseUser(userID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
