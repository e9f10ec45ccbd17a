package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type WeatherStorage struct {
	db *gorm.DB
}

func NewWeatherStorage(db *gorm.DB) *WeatherStorage {
	return &WeatherStorage{
		db: db,
	}
}

func (s *WeatherStorage) Create(ctx context.Context, snapshot *entity.WeatherSnapshot) (*entity.WeatherSnapshot, error) {
	err := conn(ctx, s.db).Omit("Venue").Create(snapshot).Error
	return snapshot, err
}

func (s *WeatherStorage) Get(ctx context.Context, id string) (*entity.WeatherSnapshot, error) {
	var snapshot entity.WeatherSnapshot
	if err := conn(ctx, s.db).Preload("Venue").Where("id = ?", id).First(&snapshot).Error; err != nil {
		return nil, notFound(err)
	}
	return &snapshot, nil
}

// GetAll returns snapshots newest first, optionally for a single venue.
func (s *WeatherStorage) GetAll(ctx context.Context, venueID string, offset, limit int) ([]entity.WeatherSnapshot, error) {
	var snapshots []entity.WeatherSnapshot
	query := conn(ctx, s.db).Preload("Venue").Order("created_at DESC")
	if venueID != "" {
		query = query.Where("venue_id = ?", venueID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Offset(offset).Find(&snapshots).Error
	return snapshots, err
}

// Latest returns the most recent snapshot of the venue.
func (s *WeatherStorage) Latest(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error) {
	var snapshot entity.WeatherSnapshot
	err := conn(ctx, s.db).
		Preload("Venue").
		Where("venue_id = ?", venueID).
		Order("created_at DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &snapshot, nil
}
