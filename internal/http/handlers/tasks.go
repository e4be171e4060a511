package handlers

import (
	"net/http"

	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	UserID      *string `json:"userId"`
}

type updateTaskRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

// ListTasks returns the caller's tasks, newest first.
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), callerID(c))
	if err != nil {
		respondTaskError(c, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask stores a task owned by the caller. A userId in the body is
// accepted for compatibility but must name the caller.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	in := service.CreateTaskInput{Title: req.Title, Description: req.Description}
	if req.UserID != nil {
		owner, err := uuid.Parse(*req.UserID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
			return
		}
		in.UserID = &owner
	}

	task, err := h.Tasks.Create(c.Request.Context(), callerID(c), in)
	if err != nil {
		respondTaskError(c, err, msgCreateFailed)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetTask returns one task the caller owns.
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		respondTaskError(c, err, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask sets isCompleted on a task the caller owns.
func (h *Handler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsCompleted == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.UpdateCompletion(c.Request.Context(), callerID(c), id, *req.IsCompleted)
	if err != nil {
		respondTaskError(c, err, msgUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task the caller owns.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), callerID(c), id); err != nil {
		respondTaskError(c, err, msgDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

// taskID parses the :id path parameter. An id that is not a UUID cannot
// exist, so it is answered as not found.
func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return uuid.Nil, false
	}
	return id, true
}
