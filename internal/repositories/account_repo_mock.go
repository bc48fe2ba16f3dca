package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"akun/internal/models"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	accounts map[uint]models.Account
	nextID   uint
	mu       sync.RWMutex
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[uint]models.Account),
		nextID:   1,
	}
}

// FindByAccount returns the account whose username or email equals account.
func (r *MockAccountRepository) FindByAccount(_ context.Context, account string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == account || (a.Email != nil && *a.Email == account) {
			return &a, nil
		}
	}
	return nil, nil
}

// FindByID returns an account by its ID.
func (r *MockAccountRepository) FindByID(_ context.Context, id uint) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// Create adds a new account, enforcing unique usernames and emails.
func (r *MockAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Username == account.Username {
			return fmt.Errorf("%w: username %s", ErrDuplicateAccount, account.Username)
		}
		if a.Email != nil && account.Email != nil && *a.Email == *account.Email {
			return fmt.Errorf("%w: email %s", ErrDuplicateAccount, *account.Email)
		}
	}

	now := time.Now()
	account.ID = r.nextID
	account.CreatedAt = now
	account.UpdatedAt = now
	r.nextID++
	r.accounts[account.ID] = *account
	return nil
}

// UpdatePassword replaces the stored password hash of an account.
func (r *MockAccountRepository) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with ID %d not found for update", id)
	}
	a.Password = passwordHash
	a.UpdatedAt = time.Now()
	r.accounts[id] = a
	return nil
}
