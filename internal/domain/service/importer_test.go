package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
)

var importHeader = []interface{}{"title", "description", "publish_at", "start_at", "end_at", "venue", "coordinates", "rating"}

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	all := append([][]interface{}{importHeader}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func newImportService(store *memStore) (*ImportService, *fakeQueue) {
	queue := &fakeQueue{}
	trigger := NewPublicationTrigger(queue, &fakeConfigLoader{}, NewRecipientResolver(&fakeUserEmails{}), nopLogger())
	events := NewEventService(store, store.venue(), trigger, nopLogger())
	return NewImportService(store, NewVenueService(store.venue()), events, nopLogger()), queue
}

var author = &entity.User{ID: 7, Username: "admin", IsSuperuser: true}

func TestImport_RowIsolation(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	file := workbook(t,
		[]interface{}{"Gala", "Annual", "", "2025-06-01 18:00", "2025-06-01 22:00", "Main Hall", "37.61, 55.75", 10},
		[]interface{}{"Lost", "", "", "2025-06-02 18:00", "2025-06-02 22:00", "Nowhere", "", ""},
		[]interface{}{"Meetup", "", "", "2025-06-03 18:00", "2025-06-03 20:00", "Main Hall", "", ""},
	)

	result, err := importer.Import(context.Background(), file, author)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, []string{"Row 2: venue 'Nowhere' not found and no coordinates provided"}, result.Errors)
	assert.True(t, result.Partial())
	assert.Equal(t, 2, store.eventCount())
	assert.Equal(t, 1, store.venue().count())
}

func TestImport_CreatesDraftsOwnedByAuthor(t *testing.T) {
	store := newMemStore()
	importer, queue := newImportService(store)

	file := workbook(t,
		[]interface{}{"Gala", "Annual", "2025-05-01", "2025-06-01 18:00:00", "2025-06-01T22:00:00Z", "Main Hall", "37.61;55.75", ""},
	)

	result, err := importer.Import(context.Background(), file, author)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)

	events, _ := store.GetAll(context.Background(), dtoAll())
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, entity.EventStatusDraft, event.Status)
	assert.Equal(t, int64(7), event.AuthorID)
	assert.Equal(t, 0, event.Rating)
	require.NotNil(t, event.PublishAt)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), event.PublishAt.UTC())
	assert.Empty(t, queue.tasks, "drafts never trigger side effects")

	venue, err := store.venue().GetByName(context.Background(), "Main Hall")
	require.NoError(t, err)
	assert.Equal(t, 37.61, venue.Longitude)
	assert.Equal(t, 55.75, venue.Latitude)
}

func TestImport_SerialDates(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	file := workbook(t,
		[]interface{}{"Gala", "", nil, start, start.Add(2 * time.Hour), "Main Hall", "37.61, 55.75", 3},
	)

	result, err := importer.Import(context.Background(), file, author)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created, result.Errors)

	events, _ := store.GetAll(context.Background(), dtoAll())
	assert.WithinDuration(t, start, events[0].StartAt, time.Second)
	assert.Equal(t, 3, events[0].Rating)
}

func TestImport_FailedRowRollsBackVenue(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	file := workbook(t,
		[]interface{}{"Broken", "", "", "not a date", "2025-06-01 22:00", "Fresh Venue", "10, 20", ""},
	)

	result, err := importer.Import(context.Background(), file, author)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 1: start_at")
	assert.Zero(t, store.venue().count())
}

func TestImport_ValidationErrorsAreRowErrors(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	file := workbook(t,
		[]interface{}{"Backwards", "", "", "2025-06-01 22:00", "2025-06-01 18:00", "Hall", "1, 1", ""},
		[]interface{}{"Too good", "", "", "2025-06-01 18:00", "2025-06-01 22:00", "Hall", "1, 1", 26},
		[]interface{}{"Half star", "", "", "2025-06-01 18:00", "2025-06-01 22:00", "Hall", "1, 1", "2.5"},
	)

	result, err := importer.Import(context.Background(), file, author)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Row 1: ")
	assert.Contains(t, result.Errors[0], "EndAt must be after StartAt")
	assert.Contains(t, result.Errors[1], "Row 2: ")
	assert.Contains(t, result.Errors[1], "Rating")
	assert.Contains(t, result.Errors[2], "Row 3: rating")
}

func TestImport_SkipsRowsWithoutTitle(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	file := workbook(t,
		[]interface{}{"", "orphan", "", "", "", "", "", ""},
		[]interface{}{"Gala", "", "", "2025-06-01 18:00", "2025-06-01 22:00", "Hall", "1, 1", ""},
	)

	result, err := importer.Import(context.Background(), file, author)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
}

func TestImport_TwiceReusesVenue(t *testing.T) {
	store := newMemStore()
	importer, _ := newImportService(store)

	rows := [][]interface{}{
		{"Gala", "", "", "2025-06-01 18:00", "2025-06-01 22:00", "Main Hall", "37.61, 55.75", 1},
		{"Meetup", "", "", "2025-06-02 18:00", "2025-06-02 22:00", "Main Hall", "0, 0", 2},
	}

	for i := 0; i < 2; i++ {
		result, err := importer.Import(context.Background(), workbook(t, rows...), author)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
	}

	assert.Equal(t, 4, store.eventCount())
	assert.Equal(t, 1, store.venue().count())
	venue, err := store.venue().GetByName(context.Background(), "Main Hall")
	require.NoError(t, err)
	assert.Equal(t, 37.61, venue.Longitude, "existing venue keeps its coordinates")
}

func TestImport_UnreadableFile(t *testing.T) {
	importer, _ := newImportService(newMemStore())

	_, err := importer.Import(context.Background(), bytes.NewReader([]byte("not a workbook")), author)
	assert.ErrorIs(t, err, errorz.ErrUnreadableFile)
}

func TestParseImportRating(t *testing.T) {
	for in, want := range map[string]int{"": 0, "5": 5, " 7 ": 7, "12.0": 12} {
		got, err := parseImportRating(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"abc", "1.5", "Inf"} {
		_, err := parseImportRating(in)
		assert.Error(t, err, in)
	}
}
