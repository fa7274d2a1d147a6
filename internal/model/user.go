package model

import "time"

// User is an application account. Passwords are stored as bcrypt hashes and
// never serialized back to clients. Username uniqueness is a store-level
// constraint; violations surface as a duplicate-username validation error.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
