package notification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/handlers/middlewares"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type notificationConfigService interface {
	Get(ctx context.Context) (*entity.EmailNotificationConfig, error)
	Upsert(ctx context.Context, input dto.NotificationConfigInput) (*entity.EmailNotificationConfig, bool, error)
}

type notifyService interface {
	Logs(ctx context.Context, eventID string) ([]entity.NotificationLog, error)
}

type Handler struct {
	logger                    *types.Logger
	notificationConfigService notificationConfigService
	notifyService             notifyService
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:                    a.Logger,
		notificationConfigService: a.Services.NotificationConfig,
		notifyService:             a.Services.Notify,
	}
}

func (h Handler) get(c *gin.Context) {
	cfg, err := h.notificationConfigService.Get(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationConfigFromEntity(*cfg))
}

func (h Handler) put(c *gin.Context) {
	var input dto.NotificationConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cfg, created, err := h.notificationConfigService.Upsert(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.logger.Infof("(user: %d) notification config saved (created=%t)", middlewares.User(c).ID, created)
	c.JSON(status, dto.NewNotificationConfigFromEntity(*cfg))
}

func (h Handler) logs(c *gin.Context) {
	logs, err := h.notifyService.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	out := make([]dto.NotificationLog, 0, len(logs))
	for _, log := range logs {
		out = append(out, dto.NewNotificationLogFromEntity(log))
	}
	c.JSON(http.StatusOK, out)
}

func (h Handler) Setup(admin *gin.RouterGroup) {
	admin.GET("/notification-config", h.get)
	admin.PUT("/notification-config", h.put)
	admin.GET("/events/:id/notifications", h.logs)
}
