package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/store"
)

const (
	defaultSessionAnalyses = 50
	maxSessionAnalyses     = 500
)

type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]model.Entity, error)
}

type HesitationDetector interface {
	Detect(ctx context.Context, text string) (model.HesitationVerdict, error)
}

type TextRephraser interface {
	Rephrase(ctx context.Context, text, hint string) (model.RephraseResult, error)
}

type ModelStatusReporter interface {
	Status() map[string]bool
}

type AnalyzeInput struct {
	Text          string
	ParticipantID *string
	SessionID     *string
}

type BrainstormService interface {
	ExtractEntities(ctx context.Context, text string) ([]model.Entity, error)
	DetectHesitation(ctx context.Context, text string) (model.HesitationVerdict, error)
	Rephrase(ctx context.Context, text, hint string) (model.RephraseResult, error)
	// Analyze runs entity extraction and hesitation detection, and rephrases
	// when hesitation is detected above the rephrase threshold. Analyses with
	// a session id are appended to the analysis log when one is configured.
	Analyze(ctx context.Context, in AnalyzeInput) (*model.Analysis, error)
	SessionAnalyses(ctx context.Context, sessionID string, limit int) ([]model.AnalysisRecord, error)
	ModelStatus() map[string]bool
}

type BrainstormConfig struct {
	RephraseThreshold float64
}

type brainstormService struct {
	entities   EntityExtractor
	hesitation HesitationDetector
	rephraser  TextRephraser
	models     ModelStatusReporter
	analyses   store.AnalysisStore
	cfg        BrainstormConfig
	now        func() time.Time
}

// NewBrainstormService wires the brainstorm models. analyses may be nil, in
// which case nothing is logged and SessionAnalyses returns ErrAnalysisLogDisabled.
func NewBrainstormService(
	entities EntityExtractor,
	hesitation HesitationDetector,
	rephraser TextRephraser,
	models ModelStatusReporter,
	analyses store.AnalysisStore,
	cfg BrainstormConfig,
	now func() time.Time,
) BrainstormService {
	if now == nil {
		now = time.Now
	}
	return &brainstormService{
		entities:   entities,
		hesitation: hesitation,
		rephraser:  rephraser,
		models:     models,
		analyses:   analyses,
		cfg:        cfg,
		now:        now,
	}
}

func (s *brainstormService) ExtractEntities(ctx context.Context, text string) ([]model.Entity, error) {
	entities, err := s.entities.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "entities extracted", "count", len(entities))
	return entities, nil
}

func (s *brainstormService) DetectHesitation(ctx context.Context, text string) (model.HesitationVerdict, error) {
	return s.hesitation.Detect(ctx, text)
}

func (s *brainstormService) Rephrase(ctx context.Context, text, hint string) (model.RephraseResult, error) {
	return s.rephraser.Rephrase(ctx, text, hint)
}

func (s *brainstormService) Analyze(ctx context.Context, in AnalyzeInput) (*model.Analysis, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID:     in.SessionID,
		ParticipantID: in.ParticipantID,
	})

	entities, err := s.entities.Extract(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("extracting entities: %w", err)
	}
	if entities == nil {
		entities = []model.Entity{}
	}

	verdict, err := s.hesitation.Detect(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("detecting hesitation: %w", err)
	}

	var suggestion *model.RephraseResult
	if verdict.Detected && verdict.Confidence > s.cfg.RephraseThreshold {
		r, err := s.rephraser.Rephrase(ctx, in.Text, "")
		if err != nil {
			return nil, fmt.Errorf("rephrasing: %w", err)
		}
		suggestion = &r
	}

	analysis := &model.Analysis{
		OriginalText:        in.Text,
		Entities:            entities,
		Hesitation:          verdict,
		RephrasedSuggestion: suggestion,
		ConfidenceMetrics: map[string]float64{
			"hesitation_confidence": verdict.Confidence,
		},
		Recommendations: Recommendations(verdict, len(entities)),
	}

	slog.InfoContext(ctx, "brainstorm contribution analyzed",
		"entities", len(entities),
		"hesitation_detected", verdict.Detected,
		"hesitation_level", verdict.Level,
		"rephrased", suggestion != nil)

	s.record(ctx, in, analysis)
	return analysis, nil
}

// record appends the analysis to the session log. Failures are logged and do
// not fail the analysis.
func (s *brainstormService) record(ctx context.Context, in AnalyzeInput, analysis *model.Analysis) {
	if s.analyses == nil || in.SessionID == nil || *in.SessionID == "" {
		return
	}
	rec := &model.AnalysisRecord{
		ID:            uuid.NewString(),
		SessionID:     *in.SessionID,
		ParticipantID: in.ParticipantID,
		Analysis:      *analysis,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.analyses.Insert(ctx, rec); err != nil {
		slog.WarnContext(ctx, "failed to record analysis", "error", err)
	}
}

func (s *brainstormService) SessionAnalyses(ctx context.Context, sessionID string, limit int) ([]model.AnalysisRecord, error) {
	if s.analyses == nil {
		return nil, ErrAnalysisLogDisabled
	}
	switch {
	case limit <= 0:
		limit = defaultSessionAnalyses
	case limit > maxSessionAnalyses:
		limit = maxSessionAnalyses
	}
	records, err := s.analyses.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing session analyses: %w", err)
	}
	return records, nil
}

func (s *brainstormService) ModelStatus() map[string]bool {
	return s.models.Status()
}

// Recommendations derives coaching hints from a hesitation verdict and the
// number of entities found.
func Recommendations(verdict model.HesitationVerdict, entityCount int) []string {
	var out []string

	if verdict.Detected {
		if verdict.Level == model.HesitationHigh {
			out = append(out,
				"Consider rephrasing to sound more confident",
				"Remove filler words and hedging language")
		}
		if verdict.Features.PassiveCount > 2 {
			out = append(out, "Use active voice for clearer communication")
		}
		if verdict.Features.QuestionMarkCount > 1 {
			out = append(out, "Convert questions to declarative statements when appropriate")
		}
	}

	switch {
	case entityCount == 0:
		out = append(out, "Add more specific details or examples to your contribution")
	case entityCount > 10:
		out = append(out, "Good detail! Consider organizing into key themes")
	}

	if len(out) == 0 {
		out = append(out, "Great communication! Clear and confident")
	}
	return out
}
