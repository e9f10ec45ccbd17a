package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

func nopLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar(), Name: "test"}
}

type dispatchedTask struct {
	Name    string
	Payload interface{}
}

// fakeQueue records every enqueued task instead of running it.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []dispatchedTask
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, name string, payload interface{}) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, dispatchedTask{Name: name, Payload: payload})
	return uuid.NewString(), nil
}

func (q *fakeQueue) named(name string) []dispatchedTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []dispatchedTask
	for _, task := range q.tasks {
		if task.Name == name {
			out = append(out, task)
		}
	}
	return out
}

type fakeConfigLoader struct {
	cfg *entity.EmailNotificationConfig
	err error
}

func (l *fakeConfigLoader) First(context.Context) (*entity.EmailNotificationConfig, error) {
	return l.cfg, l.err
}

type fakeUserEmails struct {
	emails []string
	err    error
	calls  int
}

func (u *fakeUserEmails) GetAllEmails(context.Context) ([]string, error) {
	u.calls++
	return u.emails, u.err
}

// memStore is an in-memory event and venue store with a transaction that
// snapshots and restores both maps.
type memStore struct {
	mu     sync.Mutex
	events map[string]entity.Event
	venues map[string]entity.Venue
	order  []string
}

func newMemStore() *memStore {
	return &memStore{
		events: make(map[string]entity.Event),
		venues: make(map[string]entity.Venue),
	}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	events := make(map[string]entity.Event, len(m.events))
	for k, v := range m.events {
		events[k] = v
	}
	venues := make(map[string]entity.Venue, len(m.venues))
	for k, v := range m.venues {
		venues[k] = v
	}
	order := append([]string(nil), m.order...)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.events, m.venues, m.order = events, venues, order
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = uuid.NewString()
	m.events[event.ID] = *event
	m.order = append(m.order, event.ID)
	return event, nil
}

func (m *memStore) Get(_ context.Context, id string) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	if venue, ok := m.venues[event.VenueID]; ok {
		event.Venue = &venue
	}
	return &event, nil
}

func (m *memStore) GetAll(_ context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Event
	for _, id := range m.order {
		event := m.events[id]
		if filter.PublishedOnly && event.Status != entity.EventStatusPublished {
			continue
		}
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, filter dto.EventFilter) (int64, error) {
	events, _ := m.GetAll(ctx, filter)
	return int64(len(events)), nil
}

func (m *memStore) Update(_ context.Context, event *entity.Event, _ ...string) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return nil, errorz.ErrNotFound
	}
	m.events[event.ID] = *event
	return event, nil
}

func (m *memStore) venue() *memVenues {
	return (*memVenues)(m)
}

func (m *memStore) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// memVenues is the venue view of memStore.
type memVenues memStore

func (v *memVenues) Create(_ context.Context, venue *entity.Venue) (*entity.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, existing := range v.venues {
		if existing.Name == venue.Name {
			return nil, errorz.ErrAlreadyExists
		}
	}
	venue.ID = uuid.NewString()
	v.venues[venue.ID] = *venue
	return venue, nil
}

func (v *memVenues) Get(_ context.Context, id string) (*entity.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	venue, ok := v.venues[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &venue, nil
}

func (v *memVenues) GetByName(_ context.Context, name string) (*entity.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, venue := range v.venues {
		if venue.Name == name {
			return &venue, nil
		}
	}
	return nil, errorz.ErrNotFound
}

func (v *memVenues) GetOrCreate(ctx context.Context, venue *entity.Venue) (*entity.Venue, bool, error) {
	if existing, err := v.GetByName(ctx, venue.Name); err == nil {
		return existing, false, nil
	}
	created, err := v.Create(ctx, venue)
	return created, true, err
}

func (v *memVenues) GetAll(_ context.Context) ([]entity.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]entity.Venue, 0, len(v.venues))
	for _, venue := range v.venues {
		out = append(out, venue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *memVenues) Update(_ context.Context, venue *entity.Venue) (*entity.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.venues[venue.ID] = *venue
	return venue, nil
}

func (v *memVenues) Delete(_ context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.venues, id)
	return nil
}

func (v *memVenues) CountEvents(_ context.Context, id string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var count int64
	for _, event := range v.events {
		if event.VenueID == id {
			count++
		}
	}
	return count, nil
}

func (v *memVenues) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.venues)
}

func dtoAll() dto.EventFilter {
	return dto.EventFilter{}
}
