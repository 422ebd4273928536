package models

import "time"

// Recording is the shareable resource behind a meeting: an opaque download
// locator, an owner, a visibility flag, and an optional shared-secret hash.
//
// Public and SecretHash are deliberately independent: a private recording may
// carry a secret hash, and flipping visibility never rotates the hash.
type Recording struct {
	ID         int64     `json:"id"`
	Locator    string    `json:"locator"`
	OwnerEmail string    `json:"owner"`
	Public     bool      `json:"public"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
