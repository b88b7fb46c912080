package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agilesense.ai/services/common/llm"
	"agilesense.ai/services/core/config"
	"agilesense.ai/services/internal/mlmodel"
)

// ModelBundle holds every model a service uses. It is built once at startup
// and shared read-only by all requests. Components whose artifacts failed to
// load are present but not ready, and return ErrModelNotReady.
type ModelBundle struct {
	Hesitation *HesitationDetector
	Rephraser  *Rephraser
	Entities   *EntityExtractor
	Category   *CategoryClassifier

	service config.ServiceType
}

// LoadModelBundle loads the models serviceType needs. A non-nil bundle is
// always returned; the error joins every load failure so callers can log it
// and serve in degraded mode.
func LoadModelBundle(ctx context.Context, cfg config.Config, serviceType config.ServiceType) (*ModelBundle, error) {
	b := &ModelBundle{service: serviceType}
	var errs []error

	thresholds := Thresholds{
		High:   cfg.Models.HesitationHighThreshold,
		Medium: cfg.Models.HesitationMediumThreshold,
	}

	switch serviceType {
	case config.ServiceTypeBrainstorm:
		var (
			clf    Classifier
			scaler Scaler
		)
		if m, err := mlmodel.LoadLogisticRegression(cfg.Models.HesitationModelPath); err != nil {
			errs = append(errs, fmt.Errorf("hesitation model: %w", err))
		} else {
			clf = m
		}
		if s, err := mlmodel.LoadStandardScaler(cfg.Models.HesitationScalerPath); err != nil {
			errs = append(errs, fmt.Errorf("hesitation scaler: %w", err))
		} else {
			scaler = s
		}
		b.Hesitation = NewHesitationDetector(clf, scaler, thresholds)

		var gen llm.Client
		if c, err := newLLMClient(cfg.RephraserLLM); err != nil {
			errs = append(errs, fmt.Errorf("rephraser model: %w", err))
		} else {
			gen = c
		}
		b.Rephraser = NewRephraser(gen)

		var ner llm.Client
		if c, err := newLLMClient(cfg.NERLLM); err != nil {
			errs = append(errs, fmt.Errorf("NER model: %w", err))
		} else {
			ner = c
		}
		b.Entities = NewEntityExtractor(ner)

	case config.ServiceTypeExpertise, config.ServiceTypeCLI:
		var (
			vec   Vectorizer
			model SparseClassifier
		)
		if v, err := mlmodel.LoadTfidfVectorizer(cfg.Models.CategoryVectorizerPath); err != nil {
			errs = append(errs, fmt.Errorf("category vectorizer: %w", err))
		} else {
			vec = v
		}
		if m, err := mlmodel.LoadLogisticRegression(cfg.Models.CategoryModelPath); err != nil {
			errs = append(errs, fmt.Errorf("category model: %w", err))
		} else {
			model = m
		}
		b.Category = NewCategoryClassifier(vec, model)
	}

	slog.InfoContext(ctx, "model bundle loaded", "service", serviceType, "models", b.Status())
	return b, errors.Join(errs...)
}

func newLLMClient(cfg config.LLMConfig) (llm.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("provider %q not configured", cfg.Provider)
	}
	return llm.New(llm.Config{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})
}

// Status reports readiness per model, keyed by model name.
func (b *ModelBundle) Status() map[string]bool {
	switch b.service {
	case config.ServiceTypeBrainstorm:
		return map[string]bool{
			"ner_model":        b.Entities.Ready(),
			"rephraser_model":  b.Rephraser.Ready(),
			"hesitation_model": b.Hesitation.Ready(),
		}
	default:
		return map[string]bool{
			"category_model": b.Category.Ready(),
		}
	}
}

// AllReady reports whether every model the bundle manages loaded.
func (b *ModelBundle) AllReady() bool {
	for _, ok := range b.Status() {
		if !ok {
			return false
		}
	}
	return true
}
