package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/location"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

// Spreadsheet columns, in order.
const (
	importColTitle = iota
	importColDescription
	importColPublishAt
	importColStartAt
	importColEndAt
	importColVenueName
	importColCoordinates
	importColRating

	importColumns
)

var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type importVenueFinder interface {
	FindByName(ctx context.Context, name string) (*entity.Venue, error)
	GetOrCreateByName(ctx context.Context, name string, lon, lat float64) (*entity.Venue, error)
}

type eventSaver interface {
	Save(ctx context.Context, event *entity.Event, created bool, fields ...string) (*entity.Event, error)
}

type ImportService struct {
	transactor Transactor
	venues     importVenueFinder
	events     eventSaver
	logger     *types.Logger
}

func NewImportService(transactor Transactor, venues importVenueFinder, events eventSaver, logger *types.Logger) *ImportService {
	return &ImportService{
		transactor: transactor,
		venues:     venues,
		events:     events,
		logger:     logger,
	}
}

// Import reads the first sheet of an XLSX workbook and creates one DRAFT event per
// data row. Every row runs in its own transaction; a failing row is rolled back
// and reported as "Row N: reason" where N counts data rows from 1.
// Only an unreadable workbook is returned as an error.
func (s *ImportService) Import(ctx context.Context, r io.Reader, author *entity.User) (dto.ImportResult, error) {
	result := dto.ImportResult{Errors: []string{}}

	rows, err := readImportRows(r)
	if err != nil {
		return result, err
	}

	for i, row := range rows {
		rowNum := i + 1
		if strings.TrimSpace(row[importColTitle]) == "" {
			continue
		}

		err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.importRow(ctx, row, author)
		})
		if err != nil {
			s.logger.Debugf("import row %d failed: %v", rowNum, err)
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	s.logger.Infof("Import finished (author_id=%d, created=%d, errors=%d)", author.ID, result.Created, len(result.Errors))
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, row []string, author *entity.User) error {
	venue, err := s.resolveVenue(ctx, strings.TrimSpace(row[importColVenueName]), row[importColCoordinates])
	if err != nil {
		return err
	}

	startAt, err := parseImportDate(row[importColStartAt])
	if err != nil {
		return fmt.Errorf("start_at: %w", err)
	}
	endAt, err := parseImportDate(row[importColEndAt])
	if err != nil {
		return fmt.Errorf("end_at: %w", err)
	}

	var publishAt *time.Time
	if strings.TrimSpace(row[importColPublishAt]) != "" {
		t, err := parseImportDate(row[importColPublishAt])
		if err != nil {
			return fmt.Errorf("publish_at: %w", err)
		}
		publishAt = &t
	}

	rating, err := parseImportRating(row[importColRating])
	if err != nil {
		return err
	}

	event := &entity.Event{
		Title:       strings.TrimSpace(row[importColTitle]),
		Description: row[importColDescription],
		PublishAt:   publishAt,
		StartAt:     startAt,
		EndAt:       endAt,
		AuthorID:    author.ID,
		Author:      author,
		VenueID:     venue.ID,
		Venue:       venue,
		Rating:      rating,
		Status:      entity.EventStatusDraft,
	}
	_, err = s.events.Save(ctx, event, true)
	return err
}

func (s *ImportService) resolveVenue(ctx context.Context, name, coordinates string) (*entity.Venue, error) {
	if name == "" {
		return nil, errors.New("venue name is empty")
	}

	if lon, lat, ok := ParseCoordinates(coordinates); ok {
		return s.venues.GetOrCreateByName(ctx, name, lon, lat)
	}

	venue, err := s.venues.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return nil, fmt.Errorf("venue '%s' not found and no coordinates provided", name)
		}
		return nil, err
	}
	return venue, nil
}

func readImportRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", errorz.ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrUnreadableFile, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, importColumns)
		copy(padded, row)
		data = append(data, padded)
	}
	return data, nil
}

// parseImportDate accepts the text layouts above in the configured timezone
// or a spreadsheet serial date.
func parseImportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("value is required")
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, location.Location()), nil
	}

	for _, layout := range importDateLayouts {
		if t, err := time.ParseInLocation(layout, value, location.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseImportRating(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if rating, err := strconv.Atoi(value); err == nil {
		return rating, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("rating: invalid integer %q", value)
	}
	return int(f), nil
}
