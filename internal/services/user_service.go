package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.Manager
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.Manager) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User, password string) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return validationErr("email is required")
	}
	if len(password) < minPasswordLength {
		return validationErr("password must be at least %d characters", minPasswordLength)
	}
	switch models.UserRole(user.Role) {
	case models.RoleOwner, models.RoleAdmin:
	case "":
		user.Role = string(models.RoleOwner)
	default:
		return validationErr("unknown role %q", user.Role)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return internalErr("failed to hash password", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return conflictErr("email %s is already registered", user.Email)
		}
		return internalErr("failed to create user", err)
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("user %d not found", id)
		}
		return nil, internalErr("failed to load user", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("user %s not found", email)
		}
		return nil, internalErr("failed to load user", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationErr("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, internalErr("failed to load user", err)
	}
	if user == nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logger.FromContext(ctx).Info("Login rejected", zap.String("email", email))
		return nil, unauthorizedErr("invalid email or password")
	}

	token, expires, err := s.tokens.Issue(user.ID, models.UserRole(user.Role))
	if err != nil {
		return nil, internalErr("failed to issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}
