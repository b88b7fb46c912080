package router

import (
	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/handler"
)

func IssueRouter(rg *gin.RouterGroup, h *handler.IssueHandler) {
	rg.POST("/predict", h.Predict)

	issues := rg.Group("/issues")
	{
		issues.POST("", h.Create)
		issues.GET("", h.List)
		issues.POST("/assign", h.Assign)
		issues.GET("/:id", h.Get)
		issues.POST("/:id/start", h.Start)
		issues.POST("/:id/done", h.MarkDone)
		issues.POST("/:id/resolve", h.Resolve)
		issues.POST("/:id/complete", h.Complete)
	}

	rg.GET("/developers/:email/issues", h.ForDeveloper)
}
