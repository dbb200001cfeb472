package handlers

import (
	"errors"
	"net/http"
	"time"

	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/kanban"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// KanbanHandler serves the board over HTTP and websocket.
type KanbanHandler struct {
	svc            *kanban.Service
	persistTimeout time.Duration
}

// NewKanbanHandler returns handlers backed by svc. persistTimeout bounds the
// background writes of websocket sessions.
func NewKanbanHandler(svc *kanban.Service, persistTimeout time.Duration) *KanbanHandler {
	return &KanbanHandler{svc: svc, persistTimeout: persistTimeout}
}

// CreateKanbanTaskRequest represents the payload for adding a task to a column
type CreateKanbanTaskRequest struct {
	ColumnID string `json:"columnId" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Priority string `json:"priority"`
}

// CreateColumnRequest represents the payload for adding a column
type CreateColumnRequest struct {
	Title string `json:"title" binding:"required"`
}

// MoveRequest is a drag-end event. A null destination means the card was
// dropped outside the board.
type MoveRequest struct {
	TaskID      string          `json:"taskId" binding:"required"`
	Source      board.Location  `json:"source"`
	Destination *board.Location `json:"destination"`
}

func writeKanbanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, board.ErrStaleReference):
		c.JSON(http.StatusConflict, gin.H{"error": "Board is out of date, reload and try again"})
	case errors.Is(err, kanban.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, kanban.ErrColumnNotFound), errors.Is(err, board.ErrUnknownColumn):
		c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
	case errors.Is(err, board.ErrInvalidPriority),
		errors.Is(err, board.ErrInvalidIndex),
		errors.Is(err, kanban.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// GetBoard handles GET /api/kanban
func (h *KanbanHandler) GetBoard(c *gin.Context) {
	b, err := h.svc.FetchBoard(c.Request.Context())
	if err != nil {
		writeKanbanError(c, err, "Failed to load board")
		return
	}
	c.JSON(http.StatusOK, b)
}

// Seed handles POST /api/kanban/seed
// Creates the default columns when the board is empty.
func (h *KanbanHandler) Seed(c *gin.Context) {
	created, err := h.svc.Seed(c.Request.Context())
	if err != nil {
		writeKanbanError(c, err, "Failed to seed board")
		return
	}
	b, err := h.svc.FetchBoard(c.Request.Context())
	if err != nil {
		writeKanbanError(c, err, "Failed to load board")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "board": b})
}

// CreateColumn handles POST /api/kanban/columns (admin only)
func (h *KanbanHandler) CreateColumn(c *gin.Context) {
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	col, err := h.svc.CreateColumn(c.Request.Context(), req.Title)
	if err != nil {
		writeKanbanError(c, err, "Failed to create column")
		return
	}
	c.JSON(http.StatusCreated, col)
}

// CreateTask handles POST /api/kanban/tasks
func (h *KanbanHandler) CreateTask(c *gin.Context) {
	var req CreateKanbanTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := board.ParsePriority(req.Priority)
	if err != nil {
		writeKanbanError(c, err, "Failed to create task")
		return
	}
	task, err := h.svc.CreateTask(c.Request.Context(), req.ColumnID, req.Content, p)
	if err != nil {
		writeKanbanError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// DeleteTask handles DELETE /api/kanban/tasks/:id
func (h *KanbanHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if err := h.svc.DeleteTask(c.Request.Context(), taskID); err != nil {
		writeKanbanError(c, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

// MoveTask handles POST /api/kanban/moves
// The move is validated against the stored board and persisted before the
// response is written.
func (h *KanbanHandler) MoveTask(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source.ColumnID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source.columnId is required"})
		return
	}

	res, err := h.svc.Move(c.Request.Context(), board.DragResult{
		TaskID:      req.TaskID,
		Source:      req.Source,
		Destination: req.Destination,
	})
	if err != nil {
		writeKanbanError(c, err, "Failed to move task")
		return
	}
	c.JSON(http.StatusOK, res)
}
