package dto

import (
	"time"

	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	OwnerID   uint64    `json:"owner_id"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     *UserDTO  `json:"owner,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	TotalTasks  int64     `json:"totalTasks"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	Tasks       []TaskDTO `json:"tasks"`
}

// UserListResponse represents the admin per-user task count listing
type UserListResponse struct {
	TotalUsers  int64                      `json:"totalUsers"`
	TotalPages  int                        `json:"totalPages"`
	CurrentPage int                        `json:"currentPage"`
	Users       []repository.UserTaskCount `json:"users"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		OwnerID:   task.OwnerID,
		IsDeleted: task.IsDeleted,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}

	// Include owner if preloaded
	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		TotalTasks:  totalCount,
		TotalPages:  utils.TotalPages(totalCount, pageSize),
		CurrentPage: page,
		Tasks:       items,
	}
}
