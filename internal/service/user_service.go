package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"todo-gether/internal/domain"
	"todo-gether/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, password, confirmation string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// UserServiceOption tweaks a UserService at construction.
type UserServiceOption func(*userService)

// WithBcryptCost overrides bcrypt.DefaultCost, mostly to keep tests fast.
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *userService) {
		s.cost = cost
	}
}

type userService struct {
	users repository.UserRepository
	cost  int
}

func NewUserService(users repository.UserRepository, opts ...UserServiceOption) UserService {
	s := &userService{
		users: users,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignupInput is a signup request that passed validation.
type SignupInput struct {
	Username string
	Password string
}

// ValidateSignup trims the raw fields and checks, in order: presence,
// confirmation match, then length limits.
func ValidateSignup(username, password, confirmation string) (SignupInput, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	confirmation = strings.TrimSpace(confirmation)

	if username == "" || password == "" {
		return SignupInput{}, domain.NewValidationError("Username and password required")
	}
	if password != confirmation {
		return SignupInput{}, domain.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return SignupInput{}, domain.ErrWeakPassword
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		return SignupInput{}, domain.NewValidationError(
			fmt.Sprintf("Username must be at most %d characters", domain.MaxUsernameLength))
	}
	return SignupInput{Username: username, Password: password}, nil
}

func (s *userService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	input, err := ValidateSignup(username, password, confirmation)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Authenticate never reveals whether the username exists.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, domain.NewValidationError("Username and password required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
