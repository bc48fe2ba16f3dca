package repositories

import (
	"context"
	"errors"
	"fmt"

	"akun/internal/models"

	"gorm.io/gorm"
)

// GORMAccountRepository is a GORM implementation of AccountRepository.
// The *gorm.DB must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewGORMAccountRepository creates a new instance of GORMAccountRepository.
func NewGORMAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{
		db: db,
	}
}

// FindByAccount retrieves an account by username or email.
func (r *GORMAccountRepository) FindByAccount(ctx context.Context, account string) (*models.Account, error) {
	var found models.Account
	err := r.db.WithContext(ctx).
		Where("username = ?", account).
		Or("email = ?", account).
		Take(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s: %w", account, err)
	}
	return &found, nil
}

// FindByID retrieves an account by its ID.
func (r *GORMAccountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var found models.Account
	if err := r.db.WithContext(ctx).Take(&found, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &found, nil
}

// Create inserts a new account and fills in its ID.
func (r *GORMAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %w", ErrDuplicateAccount, err)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash of an account.
func (r *GORMAccountRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account with ID %d not found for update", id)
	}
	return nil
}
