package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Badsnus/events-backend/internal/adapters/metrics"
)

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Setup(router gin.IRouter) {
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
