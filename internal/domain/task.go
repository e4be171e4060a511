package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item owned by one user. Only IsCompleted (and
// UpdatedAt with it) changes after creation.
type Task struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	IsCompleted bool      `db:"is_completed" json:"isCompleted"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
}

// OwnedBy reports whether userID is the task owner.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t != nil && t.UserID == userID
}
