package repository

import (
	"time"

	"github.com/solunkeprithwiraj/todo-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task permanently
	Delete(id uint64) error

	// SoftDeleteAll flags every task as deleted and returns the affected count
	SoftDeleteAll() (int64, error)
}

// TaskFilter holds filtering options for listing tasks. Each set field
// contributes one predicate; all predicates are combined conjunctively.
type TaskFilter struct {
	OwnerID        *uint64
	Search         string
	Completed      *bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by their lowercased email
	FindByEmail(email string) (*models.User, error)

	// FindByVerificationTokenHash finds a user holding the given token digest
	FindByVerificationTokenHash(digest string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// CountAll counts every registered user
	CountAll() (int64, error)

	// ListWithTaskCounts aggregates per-user task counts with filtering,
	// sorting and pagination
	ListWithTaskCounts(filter UserFilter) ([]UserTaskCount, error)
}

// UserFilter holds filtering options for the admin user listing
type UserFilter struct {
	Search         string
	MinTasks       int
	SortDescending bool
	Page           int
	PageSize       int
}

// UserTaskCount is one row of the admin user listing
type UserTaskCount struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	TaskCount int64  `json:"taskCount"`
}
