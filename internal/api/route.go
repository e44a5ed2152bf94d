package api

import (
	"Subfapp/internal/api/config"
	"Subfapp/internal/api/middleware"
	"Subfapp/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)
	r.Use(middleware.ViewerMiddleware(config.Cfg.Auth))
	r.Use(middleware.AuditMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("/feed", group.PostHandler.Feed)
			postGroup.GET("/feed.atom", group.PostHandler.FeedAtom)
			postGroup.POST("/:post_id/vote", group.PostHandler.Vote)
			postGroup.POST("/:post_id/view", group.PostHandler.View)
		}

		jobGroup := apiGroup.Group("/jobs")
		{
			jobGroup.GET("/runs", group.JobHandler.ListRuns)
		}
	}

	return r
}
