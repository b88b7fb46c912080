package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/queue"
	"agilesense.ai/services/internal/store"
)

// DeveloperDetail is a profile with its issue copies grouped by category.
type DeveloperDetail struct {
	Profile            *model.DeveloperProfile
	PendingByCategory  map[string][]model.PendingIssue
	ResolvedByCategory map[string][]model.ResolvedIssue
}

type DeveloperService interface {
	Upsert(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error)
	Get(ctx context.Context, email string) (*model.DeveloperProfile, error)
	Detail(ctx context.Context, email string) (*DeveloperDetail, error)
	List(ctx context.Context) ([]model.DeveloperProfile, error)
	PendingByCategory(ctx context.Context, email, category string) ([]model.PendingIssue, error)
	ResolvedByCategory(ctx context.Context, email, category string) ([]model.ResolvedIssue, error)
	// AssignPending adds issue to the developer's pending list. Adding an id
	// that is already pending is a no-op.
	AssignPending(ctx context.Context, email string, issue model.PendingIssue) (*model.DeveloperProfile, error)
	// Unassign removes the pending issue with issueID from category only.
	Unassign(ctx context.Context, email, category, issueID string) (*model.DeveloperProfile, error)
	// ResolvePending moves a pending issue to the resolved list. A nil
	// resolvedAt means now.
	ResolvePending(ctx context.Context, email, category, issueID string, resolvedAt *time.Time) (*model.DeveloperProfile, error)
	// EnsureSubmitter returns the existing profile or creates an empty one.
	EnsureSubmitter(ctx context.Context, email, name string) (*model.DeveloperProfile, error)
}

type developerService struct {
	devStore store.DeveloperStore
	events   queue.Producer
	now      func() time.Time
}

func NewDeveloperService(devStore store.DeveloperStore, events queue.Producer, now func() time.Time) DeveloperService {
	if events == nil {
		events = queue.NewNoopProducer()
	}
	if now == nil {
		now = time.Now
	}
	return &developerService{devStore: devStore, events: events, now: now}
}

func (s *developerService) Upsert(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error) {
	profile.Email = strings.TrimSpace(profile.Email)
	ctx = logger.WithLogFields(ctx, logger.LogFields{DeveloperEmail: &profile.Email})

	saved, err := s.devStore.Upsert(ctx, profile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upsert developer", "error", err)
		return nil, fmt.Errorf("upserting developer: %w", err)
	}
	slog.InfoContext(ctx, "developer upserted")
	return saved, nil
}

func (s *developerService) Get(ctx context.Context, email string) (*model.DeveloperProfile, error) {
	dev, err := s.devStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("getting developer: %w", err)
	}
	return dev, nil
}

func (s *developerService) Detail(ctx context.Context, email string) (*DeveloperDetail, error) {
	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return &DeveloperDetail{
		Profile:            dev,
		PendingByCategory:  dev.PendingIssues,
		ResolvedByCategory: dev.ResolvedIssues,
	}, nil
}

func (s *developerService) List(ctx context.Context) ([]model.DeveloperProfile, error) {
	devs, err := s.devStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing developers: %w", err)
	}
	return devs, nil
}

func (s *developerService) PendingByCategory(ctx context.Context, email, category string) ([]model.PendingIssue, error) {
	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if list := dev.PendingIssues[category]; list != nil {
		return list, nil
	}
	return []model.PendingIssue{}, nil
}

func (s *developerService) ResolvedByCategory(ctx context.Context, email, category string) ([]model.ResolvedIssue, error) {
	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if list := dev.ResolvedIssues[category]; list != nil {
		return list, nil
	}
	return []model.ResolvedIssue{}, nil
}

func (s *developerService) AssignPending(ctx context.Context, email string, issue model.PendingIssue) (*model.DeveloperProfile, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeveloperEmail: &email,
		IssueID:        &issue.ID,
		Category:       &issue.Category,
	})

	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	if issue.Status == "" {
		issue.Status = string(model.IssueStatusPending)
	}
	if issue.Priority == "" {
		issue.Priority = model.PriorityMedium
	}
	if !dev.AddPending(issue) {
		slog.DebugContext(ctx, "pending issue already present")
		return dev, nil
	}

	saved, err := s.save(ctx, dev)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "pending issue assigned")
	return saved, nil
}

func (s *developerService) Unassign(ctx context.Context, email, category, issueID string) (*model.DeveloperProfile, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeveloperEmail: &email,
		IssueID:        &issueID,
		Category:       &category,
	})

	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, ok := dev.RemovePending(category, issueID); !ok {
		return dev, nil
	}

	saved, err := s.save(ctx, dev)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "pending issue unassigned")

	err = s.events.Publish(ctx, queue.IssueEvent{
		Type:           queue.EventIssueUnassigned,
		IssueID:        issueID,
		Category:       category,
		Status:         string(model.IssueStatusPending),
		DeveloperEmail: &email,
		RequestID:      logger.GetLogFields(ctx).RequestID,
		OccurredAt:     s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish issue event", "error", err, "event_type", queue.EventIssueUnassigned)
	}
	return saved, nil
}

func (s *developerService) ResolvePending(ctx context.Context, email, category, issueID string, resolvedAt *time.Time) (*model.DeveloperProfile, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeveloperEmail: &email,
		IssueID:        &issueID,
		Category:       &category,
	})

	dev, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if resolvedAt != nil {
		at = *resolvedAt
	}
	if _, ok := dev.MovePendingToResolved(category, issueID, at); !ok {
		return nil, ErrPendingIssueNotFound
	}

	saved, err := s.save(ctx, dev)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "pending issue resolved")
	return saved, nil
}

func (s *developerService) EnsureSubmitter(ctx context.Context, email, name string) (*model.DeveloperProfile, error) {
	dev, err := s.Get(ctx, email)
	if err == nil {
		return dev, nil
	}
	if !errors.Is(err, ErrDeveloperNotFound) {
		return nil, err
	}
	return s.Upsert(ctx, model.NewDeveloperProfile(email, name))
}

func (s *developerService) save(ctx context.Context, dev *model.DeveloperProfile) (*model.DeveloperProfile, error) {
	saved, err := s.devStore.SaveIssues(ctx, dev)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeveloperNotFound
		}
		slog.ErrorContext(ctx, "failed to save developer issues", "error", err)
		return nil, fmt.Errorf("saving developer issues: %w", err)
	}
	return saved, nil
}
