package repository

import (
	"strings"

	"github.com/solunkeprithwiraj/todo-api/internal/database"
	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by their lowercased email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByVerificationTokenHash finds a user holding the given token digest
func (r *GormUserRepository) FindByVerificationTokenHash(digest string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("verification_token_hash = ?", digest).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CountAll counts every registered user
func (r *GormUserRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// ListWithTaskCounts aggregates per-user task counts. Soft-deleted tasks
// still count toward the total, matching the moderation view of the data.
func (r *GormUserRepository) ListWithTaskCounts(filter UserFilter) ([]UserTaskCount, error) {
	order := "ASC"
	if filter.SortDescending {
		order = "DESC"
	}

	query := r.db.Model(&models.User{}).
		Select("users.id, users.name, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.owner_id = users.id").
		Group("users.id").
		Having("COUNT(tasks.id) >= ?", filter.MinTasks).
		Order("task_count " + order)

	if filter.Search != "" {
		query = query.Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var rows []UserTaskCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
