package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/store"
)

const (
	expertiseWeight = 0.7
	activityWeight  = 0.3
	// Combined resolved issues and commits at which activity stops adding score.
	activitySaturation = 100.0

	DefaultTopN = 3
	MaxTopN     = 20
)

type RankedDeveloper struct {
	Developer model.DeveloperProfile
	Score     float64
}

// Score rates a developer for category. Unknown categories contribute zero.
func Score(dev model.DeveloperProfile, category string) float64 {
	activity := float64(dev.JiraIssuesSolved[category] + dev.GithubCommits[category])
	return expertiseWeight*dev.Expertise[category] +
		activityWeight*math.Min(1, activity/activitySaturation)
}

// Recommend ranks devs by Score, highest first, and returns at most n.
// Ties keep the input order.
func Recommend(devs []model.DeveloperProfile, category string, n int) []RankedDeveloper {
	ranked := make([]RankedDeveloper, len(devs))
	for i, d := range devs {
		ranked[i] = RankedDeveloper{Developer: d, Score: Score(d, category)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// ClampTopN bounds a requested result count to [1, MaxTopN].
func ClampTopN(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

type RecommendationService interface {
	Recommend(ctx context.Context, category string, n int) ([]RankedDeveloper, error)
}

type recommendationService struct {
	devStore store.DeveloperStore
}

func NewRecommendationService(devStore store.DeveloperStore) RecommendationService {
	return &recommendationService{devStore: devStore}
}

func (s *recommendationService) Recommend(ctx context.Context, category string, n int) ([]RankedDeveloper, error) {
	devs, err := s.devStore.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list developers for recommendation", "error", err, "category", category)
		return nil, fmt.Errorf("listing developers: %w", err)
	}
	ranked := Recommend(devs, category, n)
	slog.DebugContext(ctx, "developers ranked", "category", category, "candidates", len(devs), "returned", len(ranked))
	return ranked, nil
}
