package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solunkeprithwiraj/todo-api/internal/dto"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
	"github.com/solunkeprithwiraj/todo-api/internal/services"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
)

// AdminHandler coordinates the moderation endpoints. Ownership is never
// checked here; the admin guard has already vetted the caller.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns every user with their task count.
// Query: page, limit, minTasks, search, sort (asc|desc on task count).
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	minTasks, _ := strconv.Atoi(c.DefaultQuery("minTasks", "0"))

	users, totalUsers, err := h.adminService.ListUsers(services.ListUsersInput{
		Search:         c.Query("search"),
		MinTasks:       minTasks,
		SortDescending: c.Query("sort") == "desc",
		Page:           params.Page,
		PageSize:       params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Server Error")
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		TotalUsers:  totalUsers,
		TotalPages:  utils.TotalPages(totalUsers, params.Limit),
		CurrentPage: params.Page,
		Users:       users,
	})
}

// ListAllTasks returns every user's active tasks, paginated.
func (h *AdminHandler) ListAllTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.adminService.ListAllTasks(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Server Error")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// ListUserTasks returns one target user's active tasks.
// Query: page, limit, search, status (completed|pending).
func (h *AdminHandler) ListUserTasks(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListUserTasksInput{
		UserID:   targetID,
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if status := c.Query("status"); status != "" {
		completed := status == "completed"
		input.Status = &completed
	}

	tasks, total, err := h.adminService.ListUserTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Server Error")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// EditTask updates any task regardless of owner.
func (h *AdminHandler) EditTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type EditTaskRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.adminService.EditTask(taskID, services.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ToggleTask flips the completion state of any task.
func (h *AdminHandler) ToggleTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.adminService.ToggleTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes any task permanently.
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteTask(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// SoftDeleteAllTasks flags every task as deleted in one bulk operation.
func (h *AdminHandler) SoftDeleteAllTasks(c *gin.Context) {
	count, err := h.adminService.SoftDeleteAllTasks()
	if err != nil {
		apierrors.InternalError(c, "Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "All tasks marked as deleted",
		"modifiedCount": count,
	})
}
