package models

import (
	"time"
)

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`

	// SHA-256 digest of the emailed verification token. The plaintext token
	// is never stored. Both fields are cleared once the email is verified.
	VerificationTokenHash    *string    `gorm:"type:varchar(64);index" json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:OwnerID" json:"-"`
}
