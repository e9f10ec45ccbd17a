package service

import (
	"context"
	"fmt"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/validator"
)

type VenueStorage interface {
	Create(ctx context.Context, venue *entity.Venue) (*entity.Venue, error)
	Get(ctx context.Context, id string) (*entity.Venue, error)
	GetByName(ctx context.Context, name string) (*entity.Venue, error)
	GetOrCreate(ctx context.Context, venue *entity.Venue) (*entity.Venue, bool, error)
	GetAll(ctx context.Context) ([]entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) (*entity.Venue, error)
	Delete(ctx context.Context, id string) error
	CountEvents(ctx context.Context, id string) (int64, error)
}

type VenueService struct {
	storage VenueStorage
}

func NewVenueService(storage VenueStorage) *VenueService {
	return &VenueService{
		storage: storage,
	}
}

func (s *VenueService) Create(ctx context.Context, venue *entity.Venue) (*entity.Venue, error) {
	if err := validator.Venue(venue); err != nil {
		return nil, err
	}
	return s.storage.Create(ctx, venue)
}

func (s *VenueService) Get(ctx context.Context, id string) (*entity.Venue, error) {
	return s.storage.Get(ctx, id)
}

func (s *VenueService) GetAll(ctx context.Context) ([]entity.Venue, error) {
	return s.storage.GetAll(ctx)
}

// FindByName returns errorz.ErrNotFound when no venue has that exact name.
func (s *VenueService) FindByName(ctx context.Context, name string) (*entity.Venue, error) {
	return s.storage.GetByName(ctx, name)
}

// GetOrCreateByName reuses an existing venue as is; lon and lat only apply to a new one.
func (s *VenueService) GetOrCreateByName(ctx context.Context, name string, lon, lat float64) (*entity.Venue, error) {
	venue := &entity.Venue{Name: name, Longitude: lon, Latitude: lat}
	if err := validator.Venue(venue); err != nil {
		return nil, err
	}
	venue, _, err := s.storage.GetOrCreate(ctx, venue)
	return venue, err
}

func (s *VenueService) Update(ctx context.Context, venue *entity.Venue) (*entity.Venue, error) {
	if err := validator.Venue(venue); err != nil {
		return nil, err
	}
	return s.storage.Update(ctx, venue)
}

// Delete refuses to remove a venue that still has events.
func (s *VenueService) Delete(ctx context.Context, id string) error {
	if _, err := s.storage.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.storage.CountEvents(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d event(s) reference it", errorz.ErrVenueProtected, count)
	}
	return s.storage.Delete(ctx, id)
}
