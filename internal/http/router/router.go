package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/handler"
	"agilesense.ai/services/internal/service"
)

type BrainstormConfig struct {
	// History is the analysis history database; nil when disabled.
	History handler.Pinger
}

// BrainstormRoutes mounts the brainstorm platform API under /api/v1.
func BrainstormRoutes(router *gin.Engine, svc service.BrainstormService, cfg BrainstormConfig) {
	h := handler.NewBrainstormHandler(svc, cfg.History)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Brainstorm Platform",
			"docs":    "/api/v1/health",
		})
	})

	BrainstormRouter(router.Group("/api/v1"), h)
}

type ExpertiseConfig struct {
	Store handler.Pinger
}

// ExpertiseRoutes mounts the expertise API under /api/expertise.
func ExpertiseRoutes(router *gin.Engine, services *service.Services, models handler.ModelStatusFunc, cfg ExpertiseConfig) {
	health := handler.NewHealthHandler(models, cfg.Store)
	router.GET("/health", health.Expertise)

	api := router.Group("/api/expertise")
	{
		issueHandler := handler.NewIssueHandler(services.Issues())
		IssueRouter(api, issueHandler)

		devHandler := handler.NewDeveloperHandler(services.Developers(), services.Recommendations())
		DeveloperRouter(api, devHandler)
	}
}
