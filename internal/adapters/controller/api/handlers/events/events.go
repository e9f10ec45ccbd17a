package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/middlewares"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/internal/adapters/metrics"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/internal/domain/utils/calendar"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	maxImageSize  = 10 << 20
	maxImportSize = 20 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type eventService interface {
	Create(ctx context.Context, event *entity.Event, author *entity.User) (*entity.Event, error)
	GetVisible(ctx context.Context, id string, viewer *entity.User) (*entity.Event, error)
	GetAll(ctx context.Context, filter dto.EventFilter, viewer *entity.User) ([]entity.Event, int64, error)
	Update(ctx context.Context, id string, patch dto.EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
}

type importService interface {
	Import(ctx context.Context, r io.Reader, author *entity.User) (dto.ImportResult, error)
}

type exportService interface {
	Export(ctx context.Context, filter dto.EventFilter) (*bytes.Buffer, error)
}

type imageService interface {
	AddImage(ctx context.Context, eventID, filename string, data []byte) (*entity.EventImage, error)
	URL(key string) string
}

type qrService interface {
	GetEventQR(ctx context.Context, eventID string, viewer *entity.User) ([]byte, error)
}

type weatherService interface {
	ForEvent(ctx context.Context, event *entity.Event) (*entity.WeatherSnapshot, error)
}

type Handler struct {
	logger *types.Logger

	eventService   eventService
	importService  importService
	exportService  exportService
	imageService   imageService
	qrService      qrService
	weatherService weatherService
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:         a.Logger,
		eventService:   a.Services.Events,
		importService:  a.Services.Import,
		exportService:  a.Services.Export,
		imageService:   a.Services.Images,
		qrService:      a.Services.QR,
		weatherService: a.Services.Weather,
	}
}

func (h Handler) toDTO(event entity.Event) dto.Event {
	return dto.NewEventFromEntity(event, h.imageService.URL)
}

func (h Handler) list(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	events, count, err := h.eventService.GetAll(c.Request.Context(), filter, middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	results := make([]dto.Event, 0, len(events))
	for _, event := range events {
		results = append(results, h.toDTO(event))
	}
	c.JSON(http.StatusOK, dto.EventList{Count: count, Results: results})
}

func (h Handler) get(c *gin.Context) {
	event, err := h.eventService.GetVisible(c.Request.Context(), c.Param("id"), middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toDTO(*event))
}

func (h Handler) create(c *gin.Context) {
	var input dto.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), input.ToEntity(), middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.toDTO(*event))
}

func (h Handler) update(c *gin.Context) {
	var patch dto.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toDTO(*event))
}

func (h Handler) delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handler) importEvents(c *gin.Context) {
	data, _, ok := readUpload(c, "file", maxImportSize)
	if !ok {
		return
	}

	user := middlewares.User(c)
	result, err := h.importService.Import(c.Request.Context(), bytes.NewReader(data), user)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	metrics.RecordImport(result.Created, len(result.Errors))
	h.logger.Infof("(user: %d) imported events: created=%d, errors=%d", user.ID, result.Created, len(result.Errors))

	if result.Errors == nil {
		result.Errors = []string{}
	}
	c.JSON(importStatus(result), result)
}

// importStatus is 201 when every row was imported, 207 on partial success
// and 400 when nothing was created.
func importStatus(result dto.ImportResult) int {
	switch {
	case len(result.Errors) == 0:
		return http.StatusCreated
	case result.Partial():
		return http.StatusMultiStatus
	default:
		return http.StatusBadRequest
	}
}

func (h Handler) export(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	filter.Limit, filter.Offset = 0, 0

	buf, err := h.exportService.Export(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="events.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h Handler) addImage(c *gin.Context) {
	data, filename, ok := readUpload(c, "image", maxImageSize)
	if !ok {
		return
	}

	image, err := h.imageService.AddImage(c.Request.Context(), c.Param("id"), filename, data)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.EventImage{
		ID:        image.ID,
		Image:     h.imageService.URL(image.Image),
		CreatedAt: image.CreatedAt,
	})
}

func (h Handler) qr(c *gin.Context) {
	png, err := h.qrService.GetEventQR(c.Request.Context(), c.Param("id"), middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h Handler) calendarFeed(c *gin.Context) {
	events, _, err := h.eventService.GetAll(c.Request.Context(), dto.EventFilter{PublishedOnly: true}, nil)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	ics, err := calendar.ExportEventsToICS(events)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="events.ics"`)
	c.Data(http.StatusOK, calendar.ContentType, ics)
}

func (h Handler) eventCalendar(c *gin.Context) {
	event, err := h.eventService.GetVisible(c.Request.Context(), c.Param("id"), middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	ics, err := calendar.ExportEventToICS(*event)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event_%s.ics"`, event.ID))
	c.Data(http.StatusOK, calendar.ContentType, ics)
}

func (h Handler) weather(c *gin.Context) {
	event, err := h.eventService.GetVisible(c.Request.Context(), c.Param("id"), middlewares.User(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	snapshot, err := h.weatherService.ForEvent(c.Request.Context(), event)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWeatherFromEntity(*snapshot))
}

func parseFilter(c *gin.Context) (dto.EventFilter, bool) {
	filter := dto.EventFilter{
		Status:  entity.EventStatus(c.Query("status")),
		VenueID: c.Query("venue"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.BadRequest(c, "invalid status parameter")
		return filter, false
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		response.BadRequest(c, "invalid limit parameter")
		return filter, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.BadRequest(c, "invalid offset parameter")
		return filter, false
	}
	filter.Limit = min(limit, maxLimit)
	filter.Offset = offset
	return filter, true
}

func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("multipart field %q is required", field))
		return nil, "", false
	}
	if header.Size > maxSize {
		response.BadRequest(c, fmt.Sprintf("%s is larger than %d bytes", field, maxSize))
		return nil, "", false
	}

	data, err := readFile(header)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("failed to read %s: %v", field, err))
		return nil, "", false
	}
	return data, header.Filename, true
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (h Handler) Setup(public, admin *gin.RouterGroup) {
	public.GET("/events", h.list)
	public.GET("/events/calendar.ics", h.calendarFeed)
	public.GET("/events/:id", h.get)
	public.GET("/events/:id/qr", h.qr)
	public.GET("/events/:id/calendar.ics", h.eventCalendar)
	public.GET("/events/:id/weather", h.weather)

	admin.POST("/events", h.create)
	admin.PATCH("/events/:id", h.update)
	admin.DELETE("/events/:id", h.delete)
	admin.GET("/events/export", h.export)
	admin.POST("/events/import", h.importEvents)
	admin.POST("/events/:id/images", h.addImage)
}
