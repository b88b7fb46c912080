package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agilesense.ai/services/internal/http/dto"
)

const (
	expertiseServiceName = "Expertise Service"
	healthPingTimeout    = 2 * time.Second
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ModelStatusFunc func() map[string]bool

type HealthHandler struct {
	models ModelStatusFunc
	store  Pinger
}

func NewHealthHandler(models ModelStatusFunc, store Pinger) *HealthHandler {
	return &HealthHandler{models: models, store: store}
}

// Expertise reports "ok" when every model is loaded and the document store
// answers, "degraded" otherwise. It always responds 200.
func (h *HealthHandler) Expertise(c *gin.Context) {
	resp := dto.ExpertiseHealthResponse{
		Status:       "ok",
		Service:      expertiseServiceName,
		ModelsLoaded: map[string]bool{},
		Store:        "ok",
	}
	if h.models != nil {
		resp.ModelsLoaded = h.models()
	}
	for _, ok := range resp.ModelsLoaded {
		if !ok {
			resp.Status = "degraded"
		}
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Store = "unavailable"
			resp.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, resp)
}
