package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/dto"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
)

type DeveloperHandler struct {
	developers service.DeveloperService
	recommend  service.RecommendationService
}

func NewDeveloperHandler(developers service.DeveloperService, recommend service.RecommendationService) *DeveloperHandler {
	return &DeveloperHandler{developers: developers, recommend: recommend}
}

func (h *DeveloperHandler) Upsert(c *gin.Context) {
	var req dto.DeveloperProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	dev, err := h.developers.Upsert(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, "Developer save", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DeveloperHandler) List(c *gin.Context) {
	devs, err := h.developers.List(c.Request.Context())
	if err != nil {
		respondError(c, "Developer listing", err)
		return
	}
	if devs == nil {
		devs = []model.DeveloperProfile{}
	}
	c.JSON(http.StatusOK, devs)
}

func (h *DeveloperHandler) Get(c *gin.Context) {
	dev, err := h.developers.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, "Developer lookup", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DeveloperHandler) Detail(c *gin.Context) {
	detail, err := h.developers.Detail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, "Developer lookup", err)
		return
	}
	c.JSON(http.StatusOK, dto.DeveloperProfileDetailResponse{
		Profile:                  detail.Profile,
		PendingIssuesByCategory:  detail.PendingByCategory,
		ResolvedIssuesByCategory: detail.ResolvedByCategory,
	})
}

func (h *DeveloperHandler) PendingByCategory(c *gin.Context) {
	issues, err := h.developers.PendingByCategory(c.Request.Context(), c.Param("email"), c.Param("category"))
	if err != nil {
		respondError(c, "Pending issue lookup", err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *DeveloperHandler) ResolvedByCategory(c *gin.Context) {
	issues, err := h.developers.ResolvedByCategory(c.Request.Context(), c.Param("email"), c.Param("category"))
	if err != nil {
		respondError(c, "Resolved issue lookup", err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *DeveloperHandler) AssignPending(c *gin.Context) {
	var req dto.AssignIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	dev, err := h.developers.AssignPending(c.Request.Context(), req.DeveloperEmail, req.Issue.ToModel())
	if err != nil {
		respondError(c, "Issue assignment", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DeveloperHandler) Unassign(c *gin.Context) {
	dev, err := h.developers.Unassign(c.Request.Context(), c.Param("email"), c.Param("category"), c.Param("issueId"))
	if err != nil {
		respondError(c, "Issue unassignment", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DeveloperHandler) ResolvePending(c *gin.Context) {
	var req dto.ResolveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	dev, err := h.developers.ResolvePending(c.Request.Context(), req.DeveloperEmail, req.Category, req.IssueID, req.ResolvedAt)
	if err != nil {
		respondError(c, "Issue resolution", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *DeveloperHandler) CreateSubmitterProfile(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	name := strings.TrimSpace(c.Query("name"))
	if email == "" || name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: email and name are required"})
		return
	}

	dev, err := h.developers.EnsureSubmitter(c.Request.Context(), email, name)
	if err != nil {
		respondError(c, "Submitter profile", err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

// Recommend ranks developers for a category. top_n is clamped to [1, 20].
func (h *DeveloperHandler) Recommend(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: category is required"})
		return
	}

	n := service.DefaultTopN
	if raw := c.Query("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request: top_n must be an integer"})
			return
		}
		n = service.ClampTopN(parsed)
	}

	ranked, err := h.recommend.Recommend(c.Request.Context(), category, n)
	if err != nil {
		respondError(c, "Recommendation", err)
		return
	}

	resp := dto.RecommendationResponse{
		Category:   category,
		Developers: make([]dto.RecommendedDeveloper, len(ranked)),
	}
	for i, r := range ranked {
		resp.Developers[i] = dto.RecommendedDeveloper{DeveloperProfile: r.Developer, Score: r.Score}
	}
	c.JSON(http.StatusOK, resp)
}
