package models

import "time"

// User represents a registered account. Accounts are created through
// registration and are never updated or deleted afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}
