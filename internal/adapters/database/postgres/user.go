package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

// Create is a function that creates a new user in the database.
func (s *UserStorage) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := conn(ctx, s.db).Create(user).Error
	return user, err
}

// Get is a function that gets a user from the database by id.
func (s *UserStorage) Get(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, s.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, s.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetAllEmails returns every non-empty user email.
func (s *UserStorage) GetAllEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := conn(ctx, s.db).
		Model(&entity.User{}).
		Where("email IS NOT NULL AND email <> ''").
		Pluck("email", &emails).Error
	return emails, err
}

// Update is a function that updates a user in the database.
func (s *UserStorage) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := conn(ctx, s.db).Save(user).Error
	return user, err
}
