package web

import (
	"net/http"
	"time"

	"github.com/amylase/rime-judge/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine serving the contest API.
func NewRouter(controller *ContestController) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/submissions", controller.CreateSubmission)
	api.GET("/submissions", controller.ListSubmissions)
	api.GET("/submissions/:id", controller.GetSubmission)
	api.GET("/submissions/:id/status", controller.GetSubmissionStatus)
	api.GET("/standings", controller.GetStandings)
	api.GET("/problems", controller.GetProblems)
	api.GET("/languages", controller.GetLanguages)

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
