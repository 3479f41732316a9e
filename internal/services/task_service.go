package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrNoFieldsToUpdate = errors.New("at least one field is required for update")
)

// TaskService handles owner-scoped task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing a user's tasks
type ListTasksInput struct {
	OwnerID   uint64
	Search    string
	Completed *bool
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// UpdateTaskInput represents input for a partial task update
type UpdateTaskInput struct {
	Title     *string
	Completed *bool
}

// CreateTask creates a task owned by the given user.
func (s *TaskService) CreateTask(ownerID uint64, title string, completed bool) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:     title,
		Completed: completed,
		OwnerID:   ownerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Owner")
}

// ListTasks returns the caller's active tasks, newest first. Absent filters
// contribute no predicate; the owner and not-deleted predicates always apply.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:  &input.OwnerID,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Completed != nil {
		filter.Completed = input.Completed
	}
	if input.StartDate != nil && input.EndDate != nil {
		filter.CreatedFrom = input.StartDate
		filter.CreatedTo = input.EndDate
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task if it belongs to the caller. A task owned by someone
// else reports not-found, indistinguishable from a missing one.
func (s *TaskService) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.findOwnedTask(ownerID, taskID, "Owner")
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update to the caller's task. An empty title is
// treated as absent, so a body carrying nothing else is rejected.
func (s *TaskService) UpdateTask(ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		input.Title = nil
	}
	if input.Title == nil && input.Completed == nil {
		return nil, ErrNoFieldsToUpdate
	}

	task, err := s.findOwnedTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Owner")
}

// DeleteTask permanently removes the caller's task.
func (s *TaskService) DeleteTask(ownerID, taskID uint64) error {
	if _, err := s.findOwnedTask(ownerID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findOwnedTask(ownerID, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}
