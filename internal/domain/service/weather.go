package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

const refreshConcurrency = 4

type WeatherProvider interface {
	Current(ctx context.Context, latitude, longitude float64) (*dto.WeatherReading, error)
}

type WeatherStorage interface {
	Create(ctx context.Context, snapshot *entity.WeatherSnapshot) (*entity.WeatherSnapshot, error)
	Get(ctx context.Context, id string) (*entity.WeatherSnapshot, error)
	GetAll(ctx context.Context, venueID string, offset, limit int) ([]entity.WeatherSnapshot, error)
	// Latest returns errorz.ErrNotFound when the venue has no snapshots.
	Latest(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error)
}

// WeatherCache keeps the current snapshot per venue. Get returns nil on a miss.
type WeatherCache interface {
	Get(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error)
	Set(ctx context.Context, snapshot *entity.WeatherSnapshot) error
}

type weatherVenueStorage interface {
	Get(ctx context.Context, id string) (*entity.Venue, error)
	GetAll(ctx context.Context) ([]entity.Venue, error)
}

type weatherEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
}

type WeatherService struct {
	provider     WeatherProvider
	storage      WeatherStorage
	cache        WeatherCache
	venueStorage weatherVenueStorage
	eventStorage weatherEventStorage
	eventSaver   eventSaver
	logger       *types.Logger
}

func NewWeatherService(
	provider WeatherProvider,
	storage WeatherStorage,
	cache WeatherCache,
	venueStorage weatherVenueStorage,
	eventStorage weatherEventStorage,
	eventSaver eventSaver,
	logger *types.Logger,
) *WeatherService {
	return &WeatherService{
		provider:     provider,
		storage:      storage,
		cache:        cache,
		venueStorage: venueStorage,
		eventStorage: eventStorage,
		eventSaver:   eventSaver,
		logger:       logger,
	}
}

// SnapshotVenue fetches the current weather at the venue and stores it as a new snapshot.
func (s *WeatherService) SnapshotVenue(ctx context.Context, venue *entity.Venue) (*entity.WeatherSnapshot, error) {
	reading, err := s.provider.Current(ctx, venue.Latitude, venue.Longitude)
	if err != nil {
		return nil, fmt.Errorf("fetch weather for venue %s: %w", venue.ID, err)
	}

	snapshot, err := s.storage.Create(ctx, &entity.WeatherSnapshot{
		VenueID:            venue.ID,
		TemperatureCelsius: reading.TemperatureCelsius,
		HumidityPercent:    reading.HumidityPercent,
		PressureMmHg:       reading.PressureMmHg,
		WindDirection:      reading.WindDirection,
		WindSpeedMs:        reading.WindSpeedMs,
	})
	if err != nil {
		return nil, err
	}
	snapshot.Venue = venue

	if err = s.cache.Set(ctx, snapshot); err != nil {
		s.logger.Warnf("failed to cache weather (venue_id=%s): %v", venue.ID, err)
	}
	return snapshot, nil
}

// SetEventWeather attaches a fresh snapshot of the event's venue to the event.
// An event that already has weather is left alone, so redelivered tasks are harmless.
func (s *WeatherService) SetEventWeather(ctx context.Context, eventID string) error {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.HasWeather() {
		s.logger.Debugf("event already has weather (event_id=%s)", eventID)
		return nil
	}

	venue := event.Venue
	if venue == nil {
		venue, err = s.venueStorage.Get(ctx, event.VenueID)
		if err != nil {
			return err
		}
	}

	snapshot, err := s.SnapshotVenue(ctx, venue)
	if err != nil {
		return err
	}

	event.WeatherID = &snapshot.ID
	if _, err = s.eventSaver.Save(ctx, event, false, entity.EventFieldWeatherID); err != nil {
		return err
	}
	s.logger.Infof("Weather attached (event_id=%s, weather_id=%s)", eventID, snapshot.ID)
	return nil
}

// RefreshAll snapshots every venue. A failing venue is logged and skipped.
func (s *WeatherService) RefreshAll(ctx context.Context) (int, error) {
	venues, err := s.venueStorage.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	results := make([]bool, len(venues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for i := range venues {
		i := i
		venue := &venues[i]
		g.Go(func() error {
			if _, err := s.SnapshotVenue(gctx, venue); err != nil {
				s.logger.Warnf("weather refresh failed (venue=%s): %v", venue.Name, err)
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	refreshed := 0
	for _, ok := range results {
		if ok {
			refreshed++
		}
	}
	s.logger.Infof("Weather refreshed for %d/%d venue(s)", refreshed, len(venues))
	return refreshed, ctx.Err()
}

// Current returns the most recent snapshot of a venue.
func (s *WeatherService) Current(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error) {
	cached, err := s.cache.Get(ctx, venueID)
	if err != nil {
		s.logger.Warnf("weather cache read failed (venue_id=%s): %v", venueID, err)
	}
	if cached != nil {
		return cached, nil
	}

	snapshot, err := s.storage.Latest(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if err = s.cache.Set(ctx, snapshot); err != nil {
		s.logger.Warnf("failed to cache weather (venue_id=%s): %v", venueID, err)
	}
	return snapshot, nil
}

// ForEvent returns the snapshot attached to the event, or the venue's current weather.
func (s *WeatherService) ForEvent(ctx context.Context, event *entity.Event) (*entity.WeatherSnapshot, error) {
	if event.HasWeather() {
		if event.Weather != nil {
			return event.Weather, nil
		}
		return s.storage.Get(ctx, *event.WeatherID)
	}
	return s.Current(ctx, event.VenueID)
}

func (s *WeatherService) Get(ctx context.Context, id string) (*entity.WeatherSnapshot, error) {
	return s.storage.Get(ctx, id)
}

func (s *WeatherService) GetAll(ctx context.Context, venueID string, offset, limit int) ([]entity.WeatherSnapshot, error) {
	return s.storage.GetAll(ctx, venueID, offset, limit)
}
