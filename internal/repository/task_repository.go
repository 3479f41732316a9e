package repository

import (
	"strings"

	"github.com/solunkeprithwiraj/todo-api/internal/database"
	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if !filter.IncludeDeleted {
		query = query.Where("tasks.is_deleted = ?", false)
	}
	if filter.OwnerID != nil {
		query = query.Where("tasks.owner_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(tasks.title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil {
		query = query.Where("tasks.created_at BETWEEN ? AND ?", *filter.CreatedFrom, *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Secondary id ordering keeps pagination stable when timestamps collide.
	listQuery := query.Order("tasks.created_at DESC").Order("tasks.id DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Owner").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task permanently
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// SoftDeleteAll flags every task as deleted in one bulk update. The update is
// not transactional across rows; a mid-batch failure leaves a partial result.
func (r *GormTaskRepository) SoftDeleteAll() (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("is_deleted = ?", false).
		Update("is_deleted", true)
	return result.RowsAffected, result.Error
}
