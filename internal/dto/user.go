package dto

import (
	"github.com/solunkeprithwiraj/todo-api/internal/models"
)

// UserDTO represents a user's public fields in API responses
type UserDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// LoginResponse carries the public profile plus the session token
type LoginResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO. The password hash and
// verification token never appear in responses.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}
