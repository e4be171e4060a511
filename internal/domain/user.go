package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	ConfirmedAt       *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	ConfirmationToken *uuid.UUID `db:"confirmation_token" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
}

func (u *User) Confirmed() bool {
	return u.ConfirmedAt != nil
}

// Session is the verified identity attached to a request.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}
