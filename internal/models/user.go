package models

import "time"

// User is a registered identity, keyed by email. Deleting a user does not
// cascade to recordings or meetings that reference it; the database foreign
// keys reject the delete while references remain.
type User struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
