package router

import (
	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/handler"
)

func DeveloperRouter(rg *gin.RouterGroup, h *handler.DeveloperHandler) {
	devs := rg.Group("/developers")
	{
		devs.POST("", h.Upsert)
		devs.GET("", h.List)
		devs.GET("/:email", h.Get)
		devs.GET("/:email/detail", h.Detail)
		devs.GET("/:email/pending-issues/:category", h.PendingByCategory)
		devs.DELETE("/:email/pending-issues/:category/:issueId", h.Unassign)
		devs.GET("/:email/resolved-issues/:category", h.ResolvedByCategory)
	}

	rg.POST("/assign-issue", h.AssignPending)
	rg.POST("/resolve-issue", h.ResolvePending)
	rg.POST("/create-submitter-profile", h.CreateSubmitterProfile)
	rg.GET("/recommend", h.Recommend)
}
