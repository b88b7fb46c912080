package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

var _ = Describe("BrainstormService", func() {
	var (
		ctx       context.Context
		entities  *mockEntityExtractor
		detector  *mockHesitationDetector
		rephraser *mockRephraser
		analyses  *mockAnalysisStore
		now       time.Time
	)

	newService := func(log *mockAnalysisStore) service.BrainstormService {
		var s store.AnalysisStore
		if log != nil {
			s = log
		}
		return service.NewBrainstormService(
			entities, detector, rephraser,
			staticStatus{"ner_model": true, "rephraser_model": true, "hesitation_model": false},
			s,
			service.BrainstormConfig{RephraseThreshold: 0.6},
			func() time.Time { return now },
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		entities = &mockEntityExtractor{entities: []model.Entity{{Text: "Postgres", Label: "PRODUCT", Start: 0, End: 8}}}
		detector = &mockHesitationDetector{verdict: model.HesitationVerdict{Level: model.HesitationLow, Confidence: 0.1}}
		rephraser = &mockRephraser{}
		analyses = &mockAnalysisStore{}
	})

	Describe("Analyze", func() {
		It("rephrases confident hesitation and builds recommendations", func() {
			detector.verdict = model.HesitationVerdict{
				Detected:   true,
				Confidence: 0.85,
				Level:      model.HesitationHigh,
				Features:   model.FeatureVector{PassiveCount: 3, QuestionMarkCount: 2},
			}
			svc := newService(analyses)

			a, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "Um, maybe Postgres?"})
			Expect(err).NotTo(HaveOccurred())

			Expect(a.OriginalText).To(Equal("Um, maybe Postgres?"))
			Expect(a.RephrasedSuggestion).NotTo(BeNil())
			Expect(rephraser.calls).To(Equal(1))
			Expect(a.ConfidenceMetrics).To(Equal(map[string]float64{"hesitation_confidence": 0.85}))
			Expect(a.Recommendations).To(Equal([]string{
				"Consider rephrasing to sound more confident",
				"Remove filler words and hedging language",
				"Use active voice for clearer communication",
				"Convert questions to declarative statements when appropriate",
			}))
		})

		It("skips rephrasing at or below the threshold", func() {
			detector.verdict = model.HesitationVerdict{Detected: true, Confidence: 0.6, Level: model.HesitationMedium}
			svc := newService(analyses)

			a, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "maybe"})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.RephrasedSuggestion).To(BeNil())
			Expect(rephraser.calls).To(BeZero())
		})

		It("fails when a model is not ready", func() {
			detector.err = inference.ErrModelNotReady
			svc := newService(analyses)

			_, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "hello"})
			Expect(err).To(MatchError(inference.ErrModelNotReady))
		})

		It("records analyses that carry a session id", func() {
			svc := newService(analyses)
			session, participant := "sess-1", "p-7"

			_, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "Postgres", SessionID: &session, ParticipantID: &participant})
			Expect(err).NotTo(HaveOccurred())

			Expect(analyses.inserted).To(HaveLen(1))
			rec := analyses.inserted[0]
			Expect(rec.ID).NotTo(BeEmpty())
			Expect(rec.SessionID).To(Equal("sess-1"))
			Expect(*rec.ParticipantID).To(Equal("p-7"))
			Expect(rec.CreatedAt).To(BeTemporally("==", now))
		})

		It("does not record analyses without a session id", func() {
			svc := newService(analyses)
			_, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "Postgres"})
			Expect(err).NotTo(HaveOccurred())
			Expect(analyses.inserted).To(BeEmpty())
		})

		It("returns the analysis when recording fails", func() {
			analyses.insertFn = func(context.Context, *model.AnalysisRecord) error { return errBoom }
			svc := newService(analyses)
			session := "sess-1"

			a, err := svc.Analyze(ctx, service.AnalyzeInput{Text: "Postgres", SessionID: &session})
			Expect(err).NotTo(HaveOccurred())
			Expect(a).NotTo(BeNil())
		})
	})

	DescribeTable("Recommendations",
		func(verdict model.HesitationVerdict, entityCount int, expected []string) {
			Expect(service.Recommendations(verdict, entityCount)).To(Equal(expected))
		},
		Entry("clear and detailed", model.HesitationVerdict{}, 3,
			[]string{"Great communication! Clear and confident"}),
		Entry("no entities", model.HesitationVerdict{}, 0,
			[]string{"Add more specific details or examples to your contribution"}),
		Entry("many entities", model.HesitationVerdict{}, 11,
			[]string{"Good detail! Consider organizing into key themes"}),
		Entry("undetected hesitation ignores features",
			model.HesitationVerdict{Level: model.HesitationHigh, Features: model.FeatureVector{PassiveCount: 5}}, 2,
			[]string{"Great communication! Clear and confident"}),
		Entry("medium hesitation with passive voice",
			model.HesitationVerdict{Detected: true, Level: model.HesitationMedium, Features: model.FeatureVector{PassiveCount: 3}}, 2,
			[]string{"Use active voice for clearer communication"}),
	)

	Describe("SessionAnalyses", func() {
		It("returns ErrAnalysisLogDisabled without a store", func() {
			svc := newService(nil)
			_, err := svc.SessionAnalyses(ctx, "sess-1", 10)
			Expect(err).To(MatchError(service.ErrAnalysisLogDisabled))
		})

		It("applies the default limit", func() {
			var gotLimit int
			analyses.listBySessionFn = func(_ context.Context, _ string, limit int) ([]model.AnalysisRecord, error) {
				gotLimit = limit
				return nil, nil
			}
			svc := newService(analyses)

			_, err := svc.SessionAnalyses(ctx, "sess-1", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(50))
		})
	})

	It("reports model status", func() {
		svc := newService(analyses)
		Expect(svc.ModelStatus()).To(HaveKeyWithValue("hesitation_model", false))
	})
})
