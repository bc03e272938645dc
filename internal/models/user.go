package models

import "time"

// User represents a user account in the system. The JSON form is the
// sanitized wire representation: the password hash and the token list are
// never serialized.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"-"`
}
