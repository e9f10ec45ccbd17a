package service

import (
	"context"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type NotificationConfigStorage interface {
	// First returns the earliest config row, or nil when there is none.
	First(ctx context.Context) (*entity.EmailNotificationConfig, error)
	Create(ctx context.Context, cfg *entity.EmailNotificationConfig) (*entity.EmailNotificationConfig, error)
	Update(ctx context.Context, cfg *entity.EmailNotificationConfig) (*entity.EmailNotificationConfig, error)
}

type NotificationConfigService struct {
	storage NotificationConfigStorage
}

func NewNotificationConfigService(storage NotificationConfigStorage) *NotificationConfigService {
	return &NotificationConfigService{
		storage: storage,
	}
}

// Get returns errorz.ErrNotFound when no config has been created yet.
func (s *NotificationConfigService) Get(ctx context.Context) (*entity.EmailNotificationConfig, error) {
	cfg, err := s.storage.First(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errorz.ErrNotFound
	}
	return cfg, nil
}

// Upsert changes the effective config, creating it with defaults when it does not exist.
// The second result reports whether a row was created.
func (s *NotificationConfigService) Upsert(ctx context.Context, input dto.NotificationConfigInput) (*entity.EmailNotificationConfig, bool, error) {
	cfg, err := s.storage.First(ctx)
	if err != nil {
		return nil, false, err
	}

	created := cfg == nil
	if created {
		cfg = &entity.EmailNotificationConfig{
			SubjectTemplate: DefaultSubjectTemplate,
			MessageTemplate: DefaultMessageTemplate,
		}
	}

	if input.SubjectTemplate != nil {
		cfg.SubjectTemplate = *input.SubjectTemplate
	}
	if input.MessageTemplate != nil {
		cfg.MessageTemplate = *input.MessageTemplate
	}
	if input.RecipientsList != nil {
		cfg.RecipientsList = *input.RecipientsList
	}
	if input.SendToAllUsers != nil {
		cfg.SendToAllUsers = *input.SendToAllUsers
	}

	if err = validateTemplate(cfg.SubjectTemplate); err != nil {
		return nil, false, err
	}
	if err = validateTemplate(cfg.MessageTemplate); err != nil {
		return nil, false, err
	}

	if created {
		cfg, err = s.storage.Create(ctx, cfg)
	} else {
		cfg, err = s.storage.Update(ctx, cfg)
	}
	return cfg, created, err
}
