package domain

import "time"

// User is the domain model for a registered member account.
type User struct {
	ID           string
	UserName     string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	DOB          *time.Time
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
