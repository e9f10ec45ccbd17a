package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/controller/api/response"
	"github.com/Badsnus/events-backend/internal/adapters/metrics"
	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

// UserHeader carries the id of the user authenticated by the gateway.
const UserHeader = "X-User-ID"

const userKey = "user"

type userService interface {
	Get(ctx context.Context, userID int64) (*entity.User, error)
}

type Handler struct {
	logger      *types.Logger
	userService userService
}

func New(a *app.App) *Handler {
	return &Handler{
		logger:      a.Logger,
		userService: a.Services.Users,
	}
}

// User returns the identified user, nil for anonymous requests.
func User(c *gin.Context) *entity.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := value.(*entity.User)
	return user
}

func SetUser(c *gin.Context, user *entity.User) {
	c.Set(userKey, user)
}

// Identify loads the user named by X-User-ID. Requests without the header stay anonymous.
func (h Handler) Identify(c *gin.Context) {
	raw := c.GetHeader(UserHeader)
	if raw == "" {
		c.Next()
		return
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, h.logger, errorz.ErrUnauthorized)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			response.Error(c, h.logger, errorz.ErrUnauthorized)
			return
		}
		response.Error(c, h.logger, err)
		return
	}
	if user.IsBanned {
		h.logger.Warnf("(user: %d) banned user request rejected", user.ID)
		response.Error(c, h.logger, errorz.ErrForbidden)
		return
	}

	SetUser(c, user)
	c.Next()
}

func (h Handler) RequireSuperuser(c *gin.Context) {
	user := User(c)
	if user == nil {
		response.Error(c, h.logger, errorz.ErrUnauthorized)
		return
	}
	if !user.IsSuperuser {
		response.Error(c, h.logger, errorz.ErrForbidden)
		return
	}
	c.Next()
}

// Logger logs every request and records it in the request metrics.
func (h Handler) Logger(c *gin.Context) {
	start := time.Now()
	c.Next()

	latency := time.Since(start)
	status := c.Writer.Status()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency)

	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Errorf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
	case status >= http.StatusBadRequest:
		h.logger.Warnf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
	default:
		h.logger.Debugf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
	}
}
