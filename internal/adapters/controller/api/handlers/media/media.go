package media

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type mediaStorage interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type Handler struct {
	logger  *types.Logger
	storage mediaStorage
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:  a.Logger,
		storage: a.Media,
	}
}

func (h Handler) serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	file, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

func (h Handler) Setup(router gin.IRouter) {
	router.GET("/media/*key", h.serve)
}
