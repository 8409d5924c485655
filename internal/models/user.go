// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultProfileImage is the placeholder assigned to users who never
// uploaded a picture.
const DefaultProfileImage = "default.png"

// User represents an author account in the Inkwell application.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FullName     string         `json:"full_name"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Website      string         `json:"website"`
	Github       string         `json:"github"`
	Twitter      string         `json:"twitter"`
	ProfileImage string         `gorm:"not null;default:default.png" json:"profile_image"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Comments     []Comment      `gorm:"foreignKey:UserID" json:"-"`
}
