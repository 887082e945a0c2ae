package models

import "gorm.io/gorm"

// Role values a user can hold.
const (
	RoleStudent   = "student"
	RoleLibrarian = "librarian"
)

// User represents a library account. Users are created by the seed
// command only; there is no self-service registration.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string `json:"-" gorm:"type:varchar(255)"` // Never serialized
	Role         string `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=student librarian"`
	Name         string `json:"name" gorm:"type:varchar(100)"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
