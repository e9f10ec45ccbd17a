package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

// First returns the oldest config row. A missing config is nil without error.
func (s *NotificationStorage) First(ctx context.Context) (*entity.EmailNotificationConfig, error) {
	var cfg entity.EmailNotificationConfig
	err := conn(ctx, s.db).Order("created_at, id").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *NotificationStorage) Create(ctx context.Context, cfg *entity.EmailNotificationConfig) (*entity.EmailNotificationConfig, error) {
	err := conn(ctx, s.db).Create(cfg).Error
	return cfg, err
}

func (s *NotificationStorage) Update(ctx context.Context, cfg *entity.EmailNotificationConfig) (*entity.EmailNotificationConfig, error) {
	err := conn(ctx, s.db).Save(cfg).Error
	return cfg, err
}

// CreateLog records a delivered notification.
func (s *NotificationStorage) CreateLog(ctx context.Context, log *entity.NotificationLog) error {
	return conn(ctx, s.db).Create(log).Error
}

// GetLogs returns the notification history of an event, newest first.
func (s *NotificationStorage) GetLogs(ctx context.Context, eventID string) ([]entity.NotificationLog, error) {
	var logs []entity.NotificationLog
	err := conn(ctx, s.db).Where("event_id = ?", eventID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
