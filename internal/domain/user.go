package domain

import "time"

// Roles a user can hold. The store defaults new accounts to RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity record. Email and username are each globally unique;
// the password hash is never serialized.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"column:password_hash;not null"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	Role           string    `json:"role" gorm:"not null;default:user"`
	Active         bool      `json:"active" gorm:"not null;default:true"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}
