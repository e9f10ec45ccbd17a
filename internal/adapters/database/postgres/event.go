package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

// Create is a function that creates a new event in the database.
func (s *EventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := conn(ctx, s.db).Omit(clause.Associations).Create(event).Error
	return event, err
}

// Get is a function that gets an event with its venue, author, weather and images by id.
func (s *EventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	err := conn(ctx, s.db).
		Preload("Venue").
		Preload("Author").
		Preload("Weather").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

// GetAll is a function that gets the events matching filter, newest start first.
func (s *EventStorage) GetAll(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	var events []entity.Event
	query := s.filter(conn(ctx, s.db), filter).
		Preload("Venue").
		Preload("Author").
		Order("start_at DESC, id")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	err := query.Find(&events).Error
	return events, err
}

// Update writes the given columns, or the whole row when no columns are given.
func (s *EventStorage) Update(ctx context.Context, event *entity.Event, fields ...string) (*entity.Event, error) {
	if len(fields) == 0 {
		err := conn(ctx, s.db).Omit(clause.Associations).Save(event).Error
		return event, err
	}

	columns := append(append([]string{}, fields...), "updated_at")
	result := conn(ctx, s.db).Model(event).Select(columns).Updates(event)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, notFound(gorm.ErrRecordNotFound)
	}
	return event, nil
}

// Count is a function that gets the count of events matching filter.
func (s *EventStorage) Count(ctx context.Context, filter dto.EventFilter) (int64, error) {
	var count int64
	err := s.filter(conn(ctx, s.db).Model(&entity.Event{}), filter).Count(&count).Error
	return count, err
}

func (s *EventStorage) filter(db *gorm.DB, filter dto.EventFilter) *gorm.DB {
	if filter.PublishedOnly {
		db = db.Where("status = ?", entity.EventStatusPublished)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.VenueID != "" {
		db = db.Where("venue_id = ?", filter.VenueID)
	}
	return db
}

type EventImageStorage struct {
	db *gorm.DB
}

func NewEventImageStorage(db *gorm.DB) *EventImageStorage {
	return &EventImageStorage{
		db: db,
	}
}

func (s *EventImageStorage) Create(ctx context.Context, image *entity.EventImage) (*entity.EventImage, error) {
	err := conn(ctx, s.db).Create(image).Error
	return image, err
}
