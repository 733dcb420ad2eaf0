// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered subject. PasswordHash is never exposed outside the
// service layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
