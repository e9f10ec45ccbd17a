package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/validator"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type EventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event, fields ...string) (*entity.Event, error)
	Count(ctx context.Context, filter dto.EventFilter) (int64, error)
}

type eventVenueStorage interface {
	Get(ctx context.Context, id string) (*entity.Venue, error)
}

type eventSaveHook interface {
	OnEventSaved(ctx context.Context, event *entity.Event, created bool, changedFields []string)
}

type EventService struct {
	storage      EventStorage
	venueStorage eventVenueStorage
	hook         eventSaveHook
	logger       *types.Logger
}

func NewEventService(storage EventStorage, venueStorage eventVenueStorage, hook eventSaveHook, logger *types.Logger) *EventService {
	return &EventService{
		storage:      storage,
		venueStorage: venueStorage,
		hook:         hook,
		logger:       logger,
	}
}

// Save is the single persistence path for events. A created event is inserted,
// otherwise only fields are written (every column when fields is empty).
// The save hook runs afterwards with the same field list.
func (s *EventService) Save(ctx context.Context, event *entity.Event, created bool, fields ...string) (*entity.Event, error) {
	if err := validator.Event(event); err != nil {
		return nil, err
	}

	venue, err := s.venueStorage.Get(ctx, event.VenueID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return nil, fmt.Errorf("%w: venue %s does not exist", errorz.ErrValidation, event.VenueID)
		}
		return nil, err
	}

	var saved *entity.Event
	if created {
		saved, err = s.storage.Create(ctx, event)
	} else {
		saved, err = s.storage.Update(ctx, event, fields...)
	}
	if err != nil {
		return nil, err
	}
	saved.Venue = venue

	if s.hook != nil {
		s.hook.OnEventSaved(ctx, saved, created, fields)
	}
	return saved, nil
}

// Create stores a new event authored by author. Status defaults to DRAFT.
func (s *EventService) Create(ctx context.Context, event *entity.Event, author *entity.User) (*entity.Event, error) {
	event.AuthorID = author.ID
	event.Author = author
	if event.Status == "" {
		event.Status = entity.EventStatusDraft
	}

	saved, err := s.Save(ctx, event, true)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Event created (event_id=%s, author_id=%d, status=%s)", saved.ID, author.ID, saved.Status)
	return saved, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	return s.storage.Get(ctx, id)
}

// GetVisible returns the event if viewer may see it: superusers see everything,
// everyone else only published events.
func (s *EventService) GetVisible(ctx context.Context, id string, viewer *entity.User) (*entity.Event, error) {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeAll(viewer) && !event.IsPublished() {
		return nil, errorz.ErrNotFound
	}
	return event, nil
}

func (s *EventService) GetAll(ctx context.Context, filter dto.EventFilter, viewer *entity.User) ([]entity.Event, int64, error) {
	if !canSeeAll(viewer) {
		filter.PublishedOnly = true
	}
	count, err := s.storage.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.storage.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

// Update applies patch and saves only the fields whose value actually changed,
// so the publication trigger can tell a status change from other edits.
func (s *EventService) Update(ctx context.Context, id string, patch dto.EventPatch) (*entity.Event, error) {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := applyEventPatch(event, patch)
	if len(fields) == 0 {
		return event, nil
	}

	saved, err := s.Save(ctx, event, false, fields...)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Event updated (event_id=%s, fields=%v)", saved.ID, fields)
	return saved, nil
}

// Delete marks the event as DELETED, the row is kept.
func (s *EventService) Delete(ctx context.Context, id string) error {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if event.Status == entity.EventStatusDeleted {
		return nil
	}

	event.Status = entity.EventStatusDeleted
	if _, err = s.Save(ctx, event, false, entity.EventFieldStatus); err != nil {
		return err
	}
	s.logger.Infof("Event deleted (event_id=%s)", id)
	return nil
}

func applyEventPatch(event *entity.Event, patch dto.EventPatch) []string {
	var fields []string
	if patch.Title != nil && *patch.Title != event.Title {
		event.Title = *patch.Title
		fields = append(fields, entity.EventFieldTitle)
	}
	if patch.Description != nil && *patch.Description != event.Description {
		event.Description = *patch.Description
		fields = append(fields, entity.EventFieldDescription)
	}
	if patch.PublishAt != nil && (event.PublishAt == nil || !patch.PublishAt.Equal(*event.PublishAt)) {
		publishAt := *patch.PublishAt
		event.PublishAt = &publishAt
		fields = append(fields, entity.EventFieldPublishAt)
	}
	if patch.StartAt != nil && !patch.StartAt.Equal(event.StartAt) {
		event.StartAt = *patch.StartAt
		fields = append(fields, entity.EventFieldStartAt)
	}
	if patch.EndAt != nil && !patch.EndAt.Equal(event.EndAt) {
		event.EndAt = *patch.EndAt
		fields = append(fields, entity.EventFieldEndAt)
	}
	if patch.VenueID != nil && *patch.VenueID != event.VenueID {
		event.VenueID = *patch.VenueID
		event.Venue = nil
		fields = append(fields, entity.EventFieldVenueID)
	}
	if patch.Rating != nil && *patch.Rating != event.Rating {
		event.Rating = *patch.Rating
		fields = append(fields, entity.EventFieldRating)
	}
	if patch.Status != nil && *patch.Status != event.Status {
		event.Status = *patch.Status
		fields = append(fields, entity.EventFieldStatus)
	}
	return fields
}

func canSeeAll(user *entity.User) bool {
	return user != nil && user.IsSuperuser
}
