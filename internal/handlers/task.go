package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solunkeprithwiraj/todo-api/internal/dto"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
	"github.com/solunkeprithwiraj/todo-api/internal/middleware"
	"github.com/solunkeprithwiraj/todo-api/internal/services"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
)

// TaskHandler coordinates the owner-scoped task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task owned by the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, req.Title, req.Completed)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the caller's active tasks with filtering and pagination.
// Query: search, completed, startDate, endDate, page, limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		OwnerID:  userID,
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		input.Completed = &completed
	}
	if from, ok := parseDate(c.Query("startDate")); ok {
		if to, ok := parseDate(c.Query("endDate")); ok {
			input.StartDate = &from
			input.EndDate = &to
		}
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns one of the caller's tasks by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, services.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes one of the caller's tasks.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// parseTaskID pulls the :id route parameter; a malformed id is a 400 and the
// response has already been written when ok is false.
func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

// parseDate accepts RFC 3339 timestamps or bare dates.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrNoFieldsToUpdate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found or unauthorized")
	case errors.Is(err, services.ErrTaskInvalid):
		apierrors.ValidationFailed(c, err.Error())
	default:
		apierrors.InternalError(c, "Server Error")
	}
}
