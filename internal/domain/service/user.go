package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/validator"
)

type UserStorage interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Get(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
}

type UserService struct {
	userStorage UserStorage
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{
		userStorage: userStorage,
	}
}

func (s *UserService) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return nil, fmt.Errorf("%w: username is required", errorz.ErrValidation)
	}
	if user.Email != "" && !validator.Email(user.Email) {
		return nil, fmt.Errorf("%w: invalid email %q", errorz.ErrValidation, user.Email)
	}

	if _, err := s.userStorage.GetByUsername(ctx, user.Username); err == nil {
		return nil, fmt.Errorf("%w: user %s", errorz.ErrAlreadyExists, user.Username)
	}

	return s.userStorage.Create(ctx, &user)
}

// CreateSuperuser creates a superuser, or promotes the existing user with that username.
func (s *UserService) CreateSuperuser(ctx context.Context, username, email string) (*entity.User, error) {
	existing, err := s.userStorage.GetByUsername(ctx, username)
	if err == nil {
		existing.IsSuperuser = true
		if email != "" {
			existing.Email = email
		}
		return s.userStorage.Update(ctx, existing)
	}

	return s.Create(ctx, entity.User{
		Username:    username,
		Email:       email,
		IsSuperuser: true,
	})
}

func (s *UserService) Get(ctx context.Context, userID int64) (*entity.User, error) {
	return s.userStorage.Get(ctx, userID)
}

// Ban toggles the banned flag. Banned users are rejected by the HTTP layer.
func (s *UserService) Ban(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsBanned = !user.IsBanned
	return s.userStorage.Update(ctx, user)
}
