package models

import (
	"time"
)

type Task struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	OwnerID   uint64 `gorm:"not null;index" json:"owner_id"`

	// Soft-delete flag used by admin bulk deletion. Kept as a plain column
	// rather than gorm.DeletedAt: soft-deleted rows must stay countable in
	// admin aggregations, and owner deletion is a hard delete.
	IsDeleted bool `gorm:"not null;default:false;index" json:"is_deleted"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
