package weather

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type weatherService interface {
	Get(ctx context.Context, id string) (*entity.WeatherSnapshot, error)
	GetAll(ctx context.Context, venueID string, offset, limit int) ([]entity.WeatherSnapshot, error)
	Current(ctx context.Context, venueID string) (*entity.WeatherSnapshot, error)
}

type Handler struct {
	logger         *types.Logger
	weatherService weatherService
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:         a.Logger,
		weatherService: a.Services.Weather,
	}
}

func (h Handler) list(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		response.BadRequest(c, "invalid limit parameter")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.BadRequest(c, "invalid offset parameter")
		return
	}

	snapshots, err := h.weatherService.GetAll(c.Request.Context(), c.Query("venue"), offset, limit)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	out := make([]dto.Weather, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, dto.NewWeatherFromEntity(snapshot))
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) get(c *gin.Context) {
	snapshot, err := h.weatherService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWeatherFromEntity(*snapshot))
}

func (h Handler) current(c *gin.Context) {
	snapshot, err := h.weatherService.Current(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWeatherFromEntity(*snapshot))
}

func (h Handler) Setup(public *gin.RouterGroup) {
	public.GET("/weather", h.list)
	public.GET("/weather/:id", h.get)
	public.GET("/venues/:id/weather", h.current)
}
