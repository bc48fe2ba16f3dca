package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a registered account.
type Account struct {
	gorm.Model         // ID, CreatedAt, UpdatedAt, DeletedAt
	Username   string  `gorm:"uniqueIndex;type:varchar(100);not null"`
	Email      *string `gorm:"uniqueIndex;type:varchar(255)"`
	Password   string  `json:"-" gorm:"type:varchar(255);not null"` // argon2id PHC string, never serialized
}

// Identity returns the public identity of the account.
func (a *Account) Identity() Identity {
	return Identity{Username: a.Username, Email: a.Email}
}

// Identity is the authenticated identity carried by a session token.
type Identity struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// AccountRegistered is published after a new account has been persisted.
type AccountRegistered struct {
	EventID    string    `json:"event_id"`
	AccountID  uint      `json:"account_id"`
	Username   string    `json:"username"`
	Email      *string   `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
