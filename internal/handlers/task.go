package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visorry/task-management-system/internal/middleware"
	"github.com/visorry/task-management-system/internal/service"
)

// TaskHandler handles task HTTP requests. Every method resolves the
// caller's identity from the auth gate before touching the task service.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create godoc
// @Summary Create a new task
// @Description Create a task owned by the authenticated user
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CreateTaskRequest true "Task fields"
// @Success 201 {object} models.Task
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			RespondError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary List tasks
// @Description Return every task owned by the authenticated user
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Task
// @Failure 401 {object} map[string]string
// @Router /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), identity.UserID)
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get godoc
// @Summary Get a task by id
// @Description Return a single owned task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} models.Task
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An unparseable id cannot name an owned task.
		RespondError(c, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), identity.UserID, taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			RespondError(c, http.StatusNotFound, "Task not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Update a task
// @Description Apply a partial update to an owned task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param request body service.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} models.Task
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "Task not found")
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), identity.UserID, taskID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			RespondError(c, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrValidation):
			RespondError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Description Delete an owned task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), identity.UserID, taskID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			RespondError(c, http.StatusNotFound, "Task not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
