package models

import "time"

// List is a named, user-owned collection of tasks.
type List struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
