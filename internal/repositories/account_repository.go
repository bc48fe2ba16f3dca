package repositories

import (
	"context"
	"errors"

	"akun/internal/models"
)

// ErrDuplicateAccount is returned when a username or email is already registered.
var ErrDuplicateAccount = errors.New("account already exists")

// AccountRepository defines the interface for account data access.
// Finders return nil, nil when no account matches.
type AccountRepository interface {
	// FindByAccount returns the account whose username or email equals account.
	FindByAccount(ctx context.Context, account string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	// UpdatePassword replaces the stored password hash of an account.
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}
