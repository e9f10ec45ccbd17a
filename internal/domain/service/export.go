package service

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/location"
)

const exportDateLayout = "2006-01-02 15:04"

var exportHeaders = []string{"Publish date", "Start date", "End date", "Venue", "Rating"}

type exportEventStorage interface {
	GetAll(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error)
}

type ExportService struct {
	eventStorage exportEventStorage
}

func NewExportService(eventStorage exportEventStorage) *ExportService {
	return &ExportService{
		eventStorage: eventStorage,
	}
}

// Export writes the events matching filter into a single sheet workbook.
func (s *ExportService) Export(ctx context.Context, filter dto.EventFilter) (*bytes.Buffer, error) {
	events, err := s.eventStorage.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return EventsToXLSX(events)
}

func EventsToXLSX(events []entity.Event) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, event := range events {
		row := strconv.Itoa(i + 2)
		publishAt := ""
		if event.PublishAt != nil {
			publishAt = formatExportDate(*event.PublishAt)
		}
		_ = f.SetCellValue(sheet, "A"+row, publishAt)
		_ = f.SetCellValue(sheet, "B"+row, formatExportDate(event.StartAt))
		_ = f.SetCellValue(sheet, "C"+row, formatExportDate(event.EndAt))
		_ = f.SetCellValue(sheet, "D"+row, event.VenueName(""))
		_ = f.SetCellValue(sheet, "E"+row, event.Rating)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &buf, nil
}

func formatExportDate(t time.Time) string {
	return t.In(location.Location()).Format(exportDateLayout)
}
