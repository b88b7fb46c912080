package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/http/dto"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
)

type IssueHandler struct {
	issues service.IssueService
}

func NewIssueHandler(issues service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

func (h *IssueHandler) Predict(c *gin.Context) {
	var req dto.IssuePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	var title string
	if req.Title != nil {
		title = *req.Title
	}
	pred, err := h.issues.Predict(c.Request.Context(), title, req.Description)
	if err != nil {
		respondError(c, "Category prediction", err)
		return
	}

	c.JSON(http.StatusOK, dto.IssuePredictionResponse{
		Category:      pred.Category,
		Probabilities: pred.Probabilities,
	})
}

func (h *IssueHandler) Create(c *gin.Context) {
	var req dto.IssueCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "expertise.handler.issue"})
	issue, err := h.issues.Create(ctx, service.CreateIssueInput{
		Title:           req.Title,
		Description:     req.Description,
		SubmittedBy:     req.SubmittedBy,
		SubmittedByName: req.SubmittedByName,
		Priority:        req.Priority,
	})
	if err != nil {
		respondError(c, "Issue creation", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) List(c *gin.Context) {
	var status *model.IssueStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := model.IssueStatus(raw)
		if !s.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: unknown status " + raw})
			return
		}
		status = &s
	}

	issues, err := h.issues.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, "Issue listing", err)
		return
	}
	if issues == nil {
		issues = []model.Issue{}
	}
	c.JSON(http.StatusOK, dto.IssueListResponse{Issues: issues, Total: len(issues)})
}

func (h *IssueHandler) Get(c *gin.Context) {
	issue, err := h.issues.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Issue lookup", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) Assign(c *gin.Context) {
	var req dto.IssueAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	issue, err := h.issues.Assign(c.Request.Context(), req.IssueID, req.DeveloperEmail, req.DeveloperName)
	if err != nil {
		respondError(c, "Issue assignment", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) Start(c *gin.Context) {
	var req dto.IssueActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	issue, err := h.issues.Start(c.Request.Context(), c.Param("id"), req.DeveloperEmail)
	if err != nil {
		respondError(c, "Issue start", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) MarkDone(c *gin.Context) {
	var req dto.IssueActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	issue, err := h.issues.MarkDone(c.Request.Context(), c.Param("id"), req.DeveloperEmail)
	if err != nil {
		respondError(c, "Issue completion", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) Resolve(c *gin.Context) {
	issue, err := h.issues.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Issue resolution", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// Complete marks an issue done and resolves it in one call.
func (h *IssueHandler) Complete(c *gin.Context) {
	email := strings.TrimSpace(c.Query("developerEmail"))
	if email == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: developerEmail is required"})
		return
	}

	issue, err := h.issues.Complete(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		respondError(c, "Issue completion", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) ForDeveloper(c *gin.Context) {
	issues, err := h.issues.ForDeveloper(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, "Developer issue listing", err)
		return
	}
	if issues == nil {
		issues = []model.Issue{}
	}
	c.JSON(http.StatusOK, issues)
}
