package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"akun/internal/models"
	"akun/internal/repositories"
	"akun/internal/token"
	"akun/internal/validation"

	"github.com/google/uuid"
)

var (
	// ErrNotAuthenticated is returned when an operation requires a session token and none was given.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when a looked-up account does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnexpected is returned when a flow ends without a result or a specific cause.
	ErrUnexpected = errors.New("unexpected error")
)

// LoginRequest is the input of Login. Account is a username or an email.
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// RegisterRequest is the input of Register.
type RegisterRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	Email           *string `json:"email"`
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) bool
}

// EventPublisher publishes account lifecycle events.
type EventPublisher interface {
	PublishAccountRegistered(event models.AccountRegistered) error
}

// AuthService handles registration, login and identity lookup.
type AuthService struct {
	accountRepo repositories.AccountRepository
	codec       *token.Codec
	hasher      PasswordHasher
	validator   *validation.Validator
	publisher   EventPublisher // optional
	jwtSecret   []byte
	dummyHash   string
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(
	accountRepo repositories.AccountRepository,
	codec *token.Codec,
	hasher PasswordHasher,
	validator *validation.Validator,
	publisher EventPublisher,
	jwtSecret string,
) *AuthService {
	dummyHash, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		log.Printf("Warning: failed to prepare dummy password hash: %v", err)
	}
	return &AuthService{
		accountRepo: accountRepo,
		codec:       codec,
		hasher:      hasher,
		validator:   validator,
		publisher:   publisher,
		jwtSecret:   []byte(jwtSecret),
		dummyHash:   dummyHash,
	}
}

// Login authenticates an account by username or email and returns a session token.
// Unknown accounts and wrong passwords are reported as a *validation.Error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	log.Println("login accepted one request")
	var report validation.Report

	account, err := s.accountRepo.FindByAccount(ctx, req.Account)
	if err != nil {
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if account != nil {
		ok, err := s.hasher.Verify(req.Password, account.Password)
		if err != nil {
			return "", fmt.Errorf("failed to verify password: %w", err)
		}
		if ok {
			s.upgradeHash(ctx, account, req.Password)
			return s.issueToken(account)
		}
		log.Println("bad input: wrong password")
		report.Append("password", "wrong password")
	} else {
		// Unknown accounts cost one verification too, so timing does not reveal them.
		_, _ = s.hasher.Verify(req.Password, s.dummyHash)
		log.Println("bad input: user not found")
		report.Append("account", "user not found")
	}

	if !report.IsEmpty() {
		return "", report.Err()
	}
	return "", ErrUnexpected
}

// Register validates the request, stores a new account and returns a session token for it.
// All validation failures are reported together; the store is untouched unless the input is valid.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	log.Println("register accepted one request")
	var report validation.Report

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	confirmPassword := strings.TrimSpace(req.ConfirmPassword)
	s.validator.CheckRegistration(&report, username, password, confirmPassword, req.Email)
	if !report.IsEmpty() {
		return "", report.Err()
	}

	var email *string
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		email = &trimmed
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		log.Printf("Error registering account %s: %v", username, err)
		return "", err
	}

	s.publishRegistered(account)
	return s.issueToken(account)
}

// GetIdentity returns the identity of the session when id is nil, or the
// identity of the account with the given id. An empty sessionToken always
// fails with ErrNotAuthenticated.
func (s *AuthService) GetIdentity(ctx context.Context, sessionToken string, id *int64) (models.Identity, error) {
	if sessionToken == "" {
		return models.Identity{}, ErrNotAuthenticated
	}

	own, err := s.ValidateToken(sessionToken)
	if err != nil {
		return models.Identity{}, err
	}
	if id == nil {
		return own, nil
	}

	var account *models.Account
	if *id > 0 {
		account, err = s.accountRepo.FindByID(ctx, uint(*id))
		if err != nil {
			return models.Identity{}, fmt.Errorf("failed to look up account: %w", err)
		}
	}
	if account == nil {
		var report validation.Report
		report.Append("id", fmt.Sprintf("user of id %d is not exist", *id))
		return models.Identity{}, &NotFoundError{Err: report.Err()}
	}
	return account.Identity(), nil
}

// ValidateToken decodes a session token into the identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (models.Identity, error) {
	return s.codec.Decode(tokenString, s.jwtSecret)
}

func (s *AuthService) issueToken(account *models.Account) (string, error) {
	tokenString, err := s.codec.Encode(account.Identity(), s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// upgradeHash rehashes a password stored in a legacy format. Failures are
// logged; the login itself has already succeeded.
func (s *AuthService) upgradeHash(ctx context.Context, account *models.Account, plain string) {
	if !s.hasher.NeedsUpgrade(account.Password) {
		return
	}
	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		log.Printf("Warning: failed to rehash password for %s: %v", account.Username, err)
		return
	}
	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hashed); err != nil {
		log.Printf("Warning: failed to store upgraded password for %s: %v", account.Username, err)
		return
	}
	account.Password = hashed
}

func (s *AuthService) publishRegistered(account *models.Account) {
	if s.publisher == nil {
		return
	}
	event := models.AccountRegistered{
		EventID:    uuid.New().String(),
		AccountID:  account.ID,
		Username:   account.Username,
		Email:      account.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishAccountRegistered(event); err != nil {
		log.Printf("Warning: Failed to publish account registered event for %s: %v", account.Username, err)
	}
}

// NotFoundError reports a missing account together with the field that referenced it.
type NotFoundError struct {
	Err *validation.Error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both ErrNotFound and the field-level error.
func (e *NotFoundError) Unwrap() []error {
	return []error{ErrNotFound, e.Err}
}
