package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"learningleague/internal/domain"

	"github.com/gin-gonic/gin"
)

// Tutor endpoints. All of them run behind the TutorOnly middleware;
// per-student routes additionally verify the student is managed by
// the calling tutor.

func (h *Handler) ListStudents(c *gin.Context) {
	tutorID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	students, err := h.Users.ListByTutor(c.Request.Context(), tutorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load students"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// managedStudent loads the addressed student and checks ownership.
func (h *Handler) managedStudent(c *gin.Context) (*domain.User, bool) {
	tutorID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return nil, false
	}

	// Prefer live session state over the persisted row.
	var student *domain.User
	if s, ok := h.Sessions.Get(studentID); ok {
		student = s.Snapshot()
	} else {
		student, err = h.Users.Load(c.Request.Context(), studentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load student"})
			}
			return nil, false
		}
	}

	if student.TutorID == nil || *student.TutorID != tutorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your student"})
		return nil, false
	}
	return student, true
}

// WeeklyReport is the parent-facing summary for one student. Served
// as JSON; delivery (email, print) is up to the caller.
func (h *Handler) WeeklyReport(c *gin.Context) {
	student, ok := h.managedStudent(c)
	if !ok {
		return
	}

	report := gin.H{
		"student_id":        student.ID,
		"student_name":      student.Name,
		"parent_name":       student.ParentName,
		"parent_email":      student.ParentEmail,
		"level":             student.Level,
		"xp":                student.XP,
		"weekly_xp":         student.WeeklyXP,
		"lessons_this_week": student.LessonsThisWeek,
		"login_streak":      student.LoginStreak,
		"best_streak":       student.BestStreak,
		"badges":            student.Badges,
		"in_penalty_box":    student.IsPenalized(),
		"generated_at":      time.Now().UTC().Format(time.RFC3339),
	}
	if student.WeekStart != nil {
		report["week_start"] = student.WeekStart.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, report)
}

type AssignGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Gems        int64  `json:"gems"`
}

// AssignGoal creates a custom goal for one student and registers it
// in the catalog so the completion command can validate it.
func (h *Handler) AssignGoal(c *gin.Context) {
	student, ok := h.managedStudent(c)
	if !ok {
		return
	}

	var req AssignGoalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Title == "" || req.XP <= 0 || req.Gems <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and positive xp/gems required"})
		return
	}

	tutorID, _ := getUserID(c)
	goal := domain.CustomGoal{
		StudentID:   student.ID,
		TutorID:     tutorID,
		Title:       req.Title,
		Description: req.Description,
		XP:          req.XP,
		Gems:        req.Gems,
	}
	if err := h.GoalRepo.Create(c.Request.Context(), &goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}

	h.Catalog.AddCustomGoal(goal)
	c.JSON(http.StatusCreated, goal)
}

// AwardBadge grants a badge to a student through the student's own
// session store, so observers see the update live.
func (h *Handler) AwardBadge(c *gin.Context) {
	student, ok := h.managedStudent(c)
	if !ok {
		return
	}
	badgeID := c.Param("bid")

	s, err := h.Sessions.StartSession(c.Request.Context(), student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open student session"})
		return
	}

	snap, err := s.AwardBadge(badgeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type NoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) CreateNote(c *gin.Context) {
	student, ok := h.managedStudent(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.BindJSON(&req); err != nil || req.Note == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note required"})
		return
	}

	tutorID, _ := getUserID(c)
	note := domain.TutorNote{
		StudentID: student.ID,
		TutorID:   tutorID,
		Note:      req.Note,
	}
	if err := h.Notes.Create(c.Request.Context(), &note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) ListNotes(c *gin.Context) {
	student, ok := h.managedStudent(c)
	if !ok {
		return
	}

	notes, err := h.Notes.ListByStudent(c.Request.Context(), student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
