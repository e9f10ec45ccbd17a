package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type VenueStorage struct {
	db *gorm.DB
}

func NewVenueStorage(db *gorm.DB) *VenueStorage {
	return &VenueStorage{
		db: db,
	}
}

func (s *VenueStorage) Create(ctx context.Context, venue *entity.Venue) (*entity.Venue, error) {
	err := conn(ctx, s.db).Create(venue).Error
	return venue, err
}

func (s *VenueStorage) Get(ctx context.Context, id string) (*entity.Venue, error) {
	var venue entity.Venue
	if err := conn(ctx, s.db).Where("id = ?", id).First(&venue).Error; err != nil {
		return nil, notFound(err)
	}
	return &venue, nil
}

func (s *VenueStorage) GetByName(ctx context.Context, name string) (*entity.Venue, error) {
	var venue entity.Venue
	if err := conn(ctx, s.db).Where("name = ?", name).First(&venue).Error; err != nil {
		return nil, notFound(err)
	}
	return &venue, nil
}

// GetOrCreate looks the venue up by name and inserts it when missing.
// The second result reports whether the venue was created.
func (s *VenueStorage) GetOrCreate(ctx context.Context, venue *entity.Venue) (*entity.Venue, bool, error) {
	existing, err := s.GetByName(ctx, venue.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errorz.ErrNotFound) {
		return nil, false, err
	}

	result := conn(ctx, s.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(venue)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// created concurrently under the same name
		existing, err = s.GetByName(ctx, venue.Name)
		return existing, false, err
	}
	return venue, true, nil
}

func (s *VenueStorage) GetAll(ctx context.Context) ([]entity.Venue, error) {
	var venues []entity.Venue
	err := conn(ctx, s.db).Order("name").Find(&venues).Error
	return venues, err
}

func (s *VenueStorage) Update(ctx context.Context, venue *entity.Venue) (*entity.Venue, error) {
	err := conn(ctx, s.db).Save(venue).Error
	return venue, err
}

func (s *VenueStorage) Delete(ctx context.Context, id string) error {
	return conn(ctx, s.db).Where("id = ?", id).Delete(&entity.Venue{}).Error
}

// CountEvents counts events of any status at the venue.
func (s *VenueStorage) CountEvents(ctx context.Context, id string) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&entity.Event{}).Where("venue_id = ?", id).Count(&count).Error
	return count, err
}
