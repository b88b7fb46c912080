package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/http/dto"
	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
)

const brainstormServiceName = "Brainstorm Platform"

type BrainstormHandler struct {
	svc     service.BrainstormService
	history Pinger
}

// NewBrainstormHandler builds the handler. history is the analysis history
// database and may be nil when history is disabled.
func NewBrainstormHandler(svc service.BrainstormService, history Pinger) *BrainstormHandler {
	return &BrainstormHandler{svc: svc, history: history}
}

func (h *BrainstormHandler) Health(c *gin.Context) {
	models := h.svc.ModelStatus()
	status := "healthy"
	for _, ok := range models {
		if !ok {
			status = "degraded"
			break
		}
	}
	resp := dto.BrainstormHealthResponse{
		Status:       status,
		Service:      brainstormServiceName,
		ModelsLoaded: models,
	}

	if h.history != nil {
		resp.Store = "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.history.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "analysis history database unreachable", "error", err)
			resp.Store = "unavailable"
			resp.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BrainstormHandler) ExtractEntities(c *gin.Context) {
	var req dto.TextAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	entities, err := h.svc.ExtractEntities(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, "Entity extraction", err)
		return
	}

	if entities == nil {
		entities = []model.Entity{}
	}
	c.JSON(http.StatusOK, dto.EntityExtractionResponse{
		Entities:    entities,
		EntityCount: len(entities),
		TextLength:  utf8.RuneCountInString(req.Text),
		Summary:     inference.Summarize(entities),
	})
}

func (h *BrainstormHandler) DetectHesitation(c *gin.Context) {
	var req dto.TextAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	verdict, err := h.svc.DetectHesitation(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, "Hesitation detection", err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

func (h *BrainstormHandler) Rephrase(c *gin.Context) {
	var req dto.RephraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	var hint string
	if req.Context != nil {
		hint = *req.Context
	}
	result, err := h.svc.Rephrase(c.Request.Context(), req.Text, hint)
	if err != nil {
		respondError(c, "Rephrasing", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BrainstormHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), service.AnalyzeInput{
		Text:          req.Text,
		ParticipantID: req.ParticipantID,
		SessionID:     req.SessionID,
	})
	if err != nil {
		respondError(c, "Analysis", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *BrainstormHandler) SessionAnalyses(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{SessionID: &sessionID})

	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := h.svc.SessionAnalyses(ctx, sessionID, limit)
	if err != nil {
		respondError(c, "Session analyses", err)
		return
	}

	if records == nil {
		records = []model.AnalysisRecord{}
	}
	c.JSON(http.StatusOK, dto.SessionAnalysesResponse{
		SessionID: sessionID,
		Analyses:  records,
		Total:     len(records),
	})
}
