package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"gorm.io/gorm"
)

var ErrTaskInvalid = errors.New("task failed validation")

// AdminService handles moderation across all users' tasks. None of its
// operations check ownership; callers are gated by the admin middleware.
type AdminService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListUsersInput represents filters for the per-user task count listing
type ListUsersInput struct {
	Search         string
	MinTasks       int
	SortDescending bool
	Page           int
	PageSize       int
}

// ListUsers aggregates task counts per user. The returned total counts every
// registered user, not just those matching the filters.
func (s *AdminService) ListUsers(input ListUsersInput) ([]repository.UserTaskCount, int64, error) {
	totalUsers, err := s.userRepo.CountAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := s.userRepo.ListWithTaskCounts(repository.UserFilter{
		Search:         input.Search,
		MinTasks:       input.MinTasks,
		SortDescending: input.SortDescending,
		Page:           input.Page,
		PageSize:       input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate task counts: %w", err)
	}

	return users, totalUsers, nil
}

// ListAllTasks returns every user's active tasks, paginated.
func (s *AdminService) ListAllTasks(page, pageSize int) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListUserTasksInput represents filters for one target user's task listing
type ListUserTasksInput struct {
	UserID   uint64
	Search   string
	Status   *bool
	Page     int
	PageSize int
}

// ListUserTasks returns an arbitrary user's active tasks.
func (s *AdminService) ListUserTasks(input ListUserTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:  &input.UserID,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Status != nil {
		filter.Completed = input.Status
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list user tasks: %w", err)
	}
	return tasks, total, nil
}

// EditTask updates any task without an ownership check.
func (s *AdminService) EditTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskInvalid
		}
		task.Title = *input.Title
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleTask flips the completion state of any task.
func (s *AdminService) ToggleTask(taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if strings.TrimSpace(task.Title) == "" {
		return nil, ErrTaskInvalid
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// DeleteTask removes any task permanently. Deleting a missing task is a no-op.
func (s *AdminService) DeleteTask(taskID uint64) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// SoftDeleteAllTasks flags every task as deleted and reports the count.
func (s *AdminService) SoftDeleteAllTasks() (int64, error) {
	count, err := s.taskRepo.SoftDeleteAll()
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete tasks: %w", err)
	}
	return count, nil
}

func (s *AdminService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
