package router

import (
	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/handler"
)

func BrainstormRouter(rg *gin.RouterGroup, h *handler.BrainstormHandler) {
	rg.GET("/health", h.Health)
	rg.POST("/extract-entities", h.ExtractEntities)
	rg.POST("/detect-hesitation", h.DetectHesitation)
	rg.POST("/rephrase", h.Rephrase)
	rg.POST("/analyze", h.Analyze)
	rg.GET("/sessions/:id/analyses", h.SessionAnalyses)
}
