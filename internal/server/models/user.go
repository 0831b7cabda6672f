// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. LastLogin is nil until the first successful login.
// SessionVersion is stamped into session tokens; bumping it revokes every
// token issued before.
type User struct {
	ID             string
	UserName       string
	Email          string
	PasswordHash   string
	LastLogin      *time.Time
	CreatedAt      time.Time
	SessionVersion int
}
