package auth

import "github.com/dmitrijs2005/todolists/internal/server/models"

// OwnsList reports whether userID owns list. Anonymous callers own nothing.
func OwnsList(userID string, list *models.List) bool {
	return userID != "" && list != nil && list.OwnerID == userID
}

// OwnsTask checks the owner cached on the task.
func OwnsTask(userID string, task *models.Task) bool {
	return userID != "" && task != nil && task.OwnerID == userID
}
