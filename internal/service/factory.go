package service

import (
	"time"

	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/queue"
	"agilesense.ai/services/internal/store"
)

type Services struct {
	stores *store.Stores
	models *inference.ModelBundle
	events queue.Producer
	cfg    BrainstormConfig
	now    func() time.Time
}

func NewServices(stores *store.Stores, models *inference.ModelBundle, events queue.Producer, cfg BrainstormConfig) *Services {
	if events == nil {
		events = queue.NewNoopProducer()
	}
	return &Services{
		stores: stores,
		models: models,
		events: events,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *Services) Developers() DeveloperService {
	return NewDeveloperService(s.stores.Developers(), s.events, s.now)
}

func (s *Services) Issues() IssueService {
	return NewIssueService(s.stores.Issues(), s.stores.Developers(), s.models.Category, s.events, s.now)
}

func (s *Services) Recommendations() RecommendationService {
	return NewRecommendationService(s.stores.Developers())
}

func (s *Services) Brainstorm() BrainstormService {
	var analyses store.AnalysisStore
	if s.stores != nil {
		analyses = s.stores.Analyses()
	}
	return NewBrainstormService(
		s.models.Entities,
		s.models.Hesitation,
		s.models.Rephraser,
		s.models,
		analyses,
		s.cfg,
		s.now,
	)
}
