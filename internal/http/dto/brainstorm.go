package dto

import "agilesense.ai/services/internal/model"

type TextAnalysisRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

type RephraseRequest struct {
	Text    string  `json:"text" binding:"required,min=1"`
	Context *string `json:"context,omitempty"`
}

type AnalyzeRequest struct {
	Text          string  `json:"text" binding:"required,min=1"`
	ParticipantID *string `json:"participant_id,omitempty"`
	SessionID     *string `json:"session_id,omitempty"`
}

type EntityExtractionResponse struct {
	Entities    []model.Entity      `json:"entities"`
	EntityCount int                 `json:"entity_count"`
	TextLength  int                 `json:"text_length"`
	Summary     model.EntitySummary `json:"summary"`
}

type SessionAnalysesResponse struct {
	SessionID string                 `json:"session_id"`
	Analyses  []model.AnalysisRecord `json:"analyses"`
	Total     int                    `json:"total"`
}

type BrainstormHealthResponse struct {
	Status       string          `json:"status"`
	Service      string          `json:"service"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
	// Store is empty when analysis history is disabled.
	Store string `json:"store,omitempty"`
}
