package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Current(ctx context.Context, latitude, longitude float64) (*dto.WeatherReading, error) {
	args := m.Called(ctx, latitude, longitude)
	reading, _ := args.Get(0).(*dto.WeatherReading)
	return reading, args.Error(1)
}

type memWeather struct {
	mu        sync.Mutex
	snapshots []entity.WeatherSnapshot
	clock     time.Time
}

func (w *memWeather) Create(_ context.Context, snapshot *entity.WeatherSnapshot) (*entity.WeatherSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clock = w.clock.Add(time.Minute)
	snapshot.ID = uuid.NewString()
	snapshot.CreatedAt = w.clock
	w.snapshots = append(w.snapshots, *snapshot)
	return snapshot, nil
}

func (w *memWeather) Get(_ context.Context, id string) (*entity.WeatherSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.snapshots {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, errorz.ErrNotFound
}

func (w *memWeather) GetAll(_ context.Context, venueID string, _, _ int) ([]entity.WeatherSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []entity.WeatherSnapshot
	for _, s := range w.snapshots {
		if venueID == "" || s.VenueID == venueID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (w *memWeather) Latest(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error) {
	all, _ := w.GetAll(ctx, venueID, 0, 0)
	if len(all) == 0 {
		return nil, errorz.ErrNotFound
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return &all[0], nil
}

type memWeatherCache struct {
	mu    sync.Mutex
	items map[string]entity.WeatherSnapshot
}

func (c *memWeatherCache) Get(_ context.Context, venueID string) (*entity.WeatherSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.items[venueID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memWeatherCache) Set(_ context.Context, snapshot *entity.WeatherSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]entity.WeatherSnapshot)
	}
	c.items[snapshot.VenueID] = *snapshot
	return nil
}

type weatherFixture struct {
	*eventFixture
	provider *mockProvider
	storage  *memWeather
	cache    *memWeatherCache
	service  *WeatherService
}

func newWeatherFixture(t *testing.T) *weatherFixture {
	ef := newEventFixture(t)
	provider := &mockProvider{}
	storage := &memWeather{}
	cache := &memWeatherCache{}
	return &weatherFixture{
		eventFixture: ef,
		provider:     provider,
		storage:      storage,
		cache:        cache,
		service:      NewWeatherService(provider, storage, cache, ef.store.venue(), ef.store, ef.service, nopLogger()),
	}
}

var sunny = &dto.WeatherReading{
	TemperatureCelsius: 21.5,
	HumidityPercent:    40,
	PressureMmHg:       760,
	WindSpeedMs:        3,
	WindDirection:      "NE",
}

func TestSetEventWeather_AttachesSnapshotWithoutRenotifying(t *testing.T) {
	f := newWeatherFixture(t)
	ctx := context.Background()
	event := f.draft(t)
	_, err := f.eventFixture.service.Update(ctx, event.ID, dto.EventPatch{Status: statusPtr(entity.EventStatusPublished)})
	require.NoError(t, err)
	f.provider.On("Current", mock.Anything, 55.75, 37.61).Return(sunny, nil).Once()

	require.NoError(t, f.service.SetEventWeather(ctx, event.ID))

	stored, err := f.eventFixture.service.Get(ctx, event.ID)
	require.NoError(t, err)
	require.True(t, stored.HasWeather())
	snapshot, err := f.storage.Get(ctx, *stored.WeatherID)
	require.NoError(t, err)
	assert.Equal(t, 21.5, snapshot.TemperatureCelsius)
	assert.Equal(t, "NE", snapshot.WindDirection)

	// redelivery is a no-op
	require.NoError(t, f.service.SetEventWeather(ctx, event.ID))
	f.provider.AssertExpectations(t)
	assert.Len(t, f.storage.snapshots, 1)
	assert.Len(t, f.queue.named(dto.TaskSendEventNotification), 1)
}

func TestSetEventWeather_ProviderFailure(t *testing.T) {
	f := newWeatherFixture(t)
	event := f.draft(t)
	f.provider.On("Current", mock.Anything, mock.Anything, mock.Anything).Return(nil, errorz.ErrWeatherProvider)

	err := f.service.SetEventWeather(context.Background(), event.ID)

	assert.ErrorIs(t, err, errorz.ErrWeatherProvider)
	assert.Empty(t, f.storage.snapshots)
}

func TestRefreshAll_SkipsFailingVenues(t *testing.T) {
	f := newWeatherFixture(t)
	ctx := context.Background()
	_, err := f.store.venue().Create(ctx, &entity.Venue{Name: "Broken", Latitude: 1, Longitude: 2})
	require.NoError(t, err)

	f.provider.On("Current", mock.Anything, 55.75, 37.61).Return(sunny, nil)
	f.provider.On("Current", mock.Anything, 1.0, 2.0).Return(nil, errors.New("timeout"))

	refreshed, err := f.service.RefreshAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	assert.Len(t, f.storage.snapshots, 1)
}

func TestCurrent_CacheThenStorage(t *testing.T) {
	f := newWeatherFixture(t)
	ctx := context.Background()

	_, err := f.service.Current(ctx, f.venue.ID)
	assert.ErrorIs(t, err, errorz.ErrNotFound)

	older, _ := f.storage.Create(ctx, &entity.WeatherSnapshot{VenueID: f.venue.ID, TemperatureCelsius: 1})
	newer, _ := f.storage.Create(ctx, &entity.WeatherSnapshot{VenueID: f.venue.ID, TemperatureCelsius: 2})
	require.NotEqual(t, older.ID, newer.ID)

	current, err := f.service.Current(ctx, f.venue.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, current.ID)

	cached, _ := f.cache.Get(ctx, f.venue.ID)
	require.NotNil(t, cached)
	assert.Equal(t, newer.ID, cached.ID)
}

func TestForEvent(t *testing.T) {
	f := newWeatherFixture(t)
	ctx := context.Background()
	event := f.draft(t)

	venueWeather, _ := f.storage.Create(ctx, &entity.WeatherSnapshot{VenueID: f.venue.ID})
	got, err := f.service.ForEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, venueWeather.ID, got.ID)

	attached, _ := f.storage.Create(ctx, &entity.WeatherSnapshot{VenueID: f.venue.ID})
	_, _ = f.storage.Create(ctx, &entity.WeatherSnapshot{VenueID: f.venue.ID})
	event.WeatherID = &attached.ID
	got, err = f.service.ForEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, attached.ID, got.ID)
}
