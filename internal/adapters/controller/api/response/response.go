package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, errorz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errorz.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errorz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errorz.ErrVenueProtected), errors.Is(err, errorz.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errorz.ErrValidation),
		errors.Is(err, errorz.ErrUnreadableFile),
		errors.Is(err, errorz.ErrUnknownPlaceholder),
		errors.Is(err, errorz.ErrInvalidTemplate):
		return http.StatusBadRequest
	case errors.Is(err, errorz.ErrWeatherProvider):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error aborts the request with {"error": "..."}. Server errors are logged and
// their message is not exposed.
func Error(c *gin.Context, logger *types.Logger, err error) {
	status := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
