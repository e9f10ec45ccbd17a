package venues

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type venueService interface {
	Create(ctx context.Context, venue *entity.Venue) (*entity.Venue, error)
	Get(ctx context.Context, id string) (*entity.Venue, error)
	GetAll(ctx context.Context) ([]entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) (*entity.Venue, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	logger       *types.Logger
	venueService venueService
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:       a.Logger,
		venueService: a.Services.Venues,
	}
}

func (h Handler) list(c *gin.Context) {
	venues, err := h.venueService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	out := make([]dto.Venue, 0, len(venues))
	for _, venue := range venues {
		out = append(out, dto.NewVenueFromEntity(venue))
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) get(c *gin.Context) {
	venue, err := h.venueService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVenueFromEntity(*venue))
}

func (h Handler) create(c *gin.Context) {
	var input dto.VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	venue, err := h.venueService.Create(c.Request.Context(), &entity.Venue{
		Name:      input.Name,
		Latitude:  input.Location.Latitude,
		Longitude: input.Location.Longitude,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewVenueFromEntity(*venue))
}

func (h Handler) update(c *gin.Context) {
	var input dto.VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	venue, err := h.venueService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	venue.Name = input.Name
	venue.Latitude = input.Location.Latitude
	venue.Longitude = input.Location.Longitude

	venue, err = h.venueService.Update(c.Request.Context(), venue)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVenueFromEntity(*venue))
}

func (h Handler) delete(c *gin.Context) {
	if err := h.venueService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handler) Setup(admin *gin.RouterGroup) {
	admin.GET("/venues", h.list)
	admin.POST("/venues", h.create)
	admin.GET("/venues/:id", h.get)
	admin.PUT("/venues/:id", h.update)
	admin.DELETE("/venues/:id", h.delete)
}
