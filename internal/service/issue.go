package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agilesense.ai/services/common/id"
	"agilesense.ai/services/common/logger"
	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/queue"
	"agilesense.ai/services/internal/store"
)

const topExpertsOnCreate = 3

// CategoryPredictor classifies issue text.
type CategoryPredictor interface {
	Predict(ctx context.Context, title, description string) (inference.CategoryPrediction, error)
}

type CreateIssueInput struct {
	Title           string
	Description     string
	SubmittedBy     string
	SubmittedByName *string
	Priority        model.Priority
}

// IssueService drives the issue lifecycle
//
//	pending -> assigned -> (in_progress) -> done -> resolved
//
// Transitions that touch a developer profile write the issue document and
// the profile separately; no transaction spans the two collections. Each
// method documents its write order.
type IssueService interface {
	Predict(ctx context.Context, title, description string) (inference.CategoryPrediction, error)
	// Create classifies the issue, snapshots the top experts and inserts it
	// as pending.
	Create(ctx context.Context, in CreateIssueInput) (*model.Issue, error)
	List(ctx context.Context, status *model.IssueStatus) ([]model.Issue, error)
	Get(ctx context.Context, issueID string) (*model.Issue, error)
	ForDeveloper(ctx context.Context, email string) ([]model.Issue, error)
	// Assign writes the issue (assigned) first, then appends the pending copy
	// to the developer profile.
	Assign(ctx context.Context, issueID, email, name string) (*model.Issue, error)
	// Start writes the issue (in_progress) first, then the pending copy status.
	Start(ctx context.Context, issueID, email string) (*model.Issue, error)
	// MarkDone writes the issue only.
	MarkDone(ctx context.Context, issueID, email string) (*model.Issue, error)
	// Resolve moves the developer's pending copy to resolved first, then
	// writes the issue (resolved).
	Resolve(ctx context.Context, issueID string) (*model.Issue, error)
	// Complete is MarkDone followed by Resolve.
	Complete(ctx context.Context, issueID, email string) (*model.Issue, error)
}

type issueService struct {
	issueStore store.IssueStore
	devStore   store.DeveloperStore
	predictor  CategoryPredictor
	events     queue.Producer
	now        func() time.Time
}

func NewIssueService(
	issueStore store.IssueStore,
	devStore store.DeveloperStore,
	predictor CategoryPredictor,
	events queue.Producer,
	now func() time.Time,
) IssueService {
	if events == nil {
		events = queue.NewNoopProducer()
	}
	if now == nil {
		now = time.Now
	}
	return &issueService{
		issueStore: issueStore,
		devStore:   devStore,
		predictor:  predictor,
		events:     events,
		now:        now,
	}
}

func (s *issueService) Predict(ctx context.Context, title, description string) (inference.CategoryPrediction, error) {
	pred, err := s.predictor.Predict(ctx, title, description)
	if err != nil {
		return inference.CategoryPrediction{}, fmt.Errorf("predicting category: %w", err)
	}
	slog.InfoContext(ctx, "issue category predicted", "category", pred.Category)
	return pred, nil
}

func (s *issueService) Create(ctx context.Context, in CreateIssueInput) (*model.Issue, error) {
	pred, err := s.Predict(ctx, in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Category: &pred.Category})

	devs, err := s.devStore.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list developers", "error", err)
		return nil, fmt.Errorf("listing developers: %w", err)
	}

	ranked := Recommend(devs, pred.Category, topExpertsOnCreate)
	experts := make([]model.TopExpert, 0, len(ranked))
	for _, r := range ranked {
		experts = append(experts, model.TopExpert{
			Email:            r.Developer.Email,
			Name:             r.Developer.Name,
			ExpertiseScore:   r.Developer.Expertise[pred.Category],
			JiraIssuesSolved: r.Developer.JiraIssuesSolved[pred.Category],
			GithubCommits:    r.Developer.GithubCommits[pred.Category],
			Score:            r.Score,
		})
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := s.now().UTC()
	issue := &model.Issue{
		ID:              id.NewIssueID(now),
		Title:           in.Title,
		Description:     in.Description,
		Category:        pred.Category,
		Status:          model.IssueStatusPending,
		Priority:        priority,
		SubmittedBy:     strings.TrimSpace(in.SubmittedBy),
		SubmittedByName: in.SubmittedByName,
		CreatedAt:       now,
		TopExperts:      experts,
	}

	created, err := s.issueStore.Create(ctx, issue)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create issue", "error", err)
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	slog.InfoContext(ctx, "issue created", "issue_id", created.ID, "top_experts", len(experts))
	s.publish(ctx, queue.EventIssueCreated, created, nil)
	return created, nil
}

func (s *issueService) List(ctx context.Context, status *model.IssueStatus) ([]model.Issue, error) {
	issues, err := s.issueStore.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	return issues, nil
}

func (s *issueService) Get(ctx context.Context, issueID string) (*model.Issue, error) {
	issue, err := s.issueStore.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("getting issue: %w", err)
	}
	return issue, nil
}

func (s *issueService) ForDeveloper(ctx context.Context, email string) ([]model.Issue, error) {
	issues, err := s.issueStore.ListByAssignee(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("listing developer issues: %w", err)
	}
	return issues, nil
}

func (s *issueService) Assign(ctx context.Context, issueID, email, name string) (*model.Issue, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID, DeveloperEmail: &email})

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != model.IssueStatusPending {
		return nil, fmt.Errorf("%w: cannot assign issue in status %s", ErrInvalidTransition, issue.Status)
	}

	dev, err := s.getDeveloper(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	issue.Status = model.IssueStatusAssigned
	issue.AssignedTo = &email
	issue.AssignedToName = &name
	issue.AssignedAt = &now

	updated, err := s.updateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	if dev.AddPending(updated.ToPending(model.IssueStatusAssigned)) {
		if err := s.saveDeveloper(ctx, dev); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "issue assigned")
	s.publish(ctx, queue.EventIssueAssigned, updated, &email)
	return updated, nil
}

func (s *issueService) Start(ctx context.Context, issueID, email string) (*model.Issue, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID, DeveloperEmail: &email})

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != model.IssueStatusAssigned {
		return nil, fmt.Errorf("%w: cannot start issue in status %s", ErrInvalidTransition, issue.Status)
	}
	if !issue.IsAssignee(email) {
		return nil, ErrNotAssignee
	}

	dev, err := s.getDeveloper(ctx, email)
	if err != nil {
		return nil, err
	}

	issue.Status = model.IssueStatusInProgress
	updated, err := s.updateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range dev.PendingIssues[issue.Category] {
		if dev.PendingIssues[issue.Category][i].ID == issue.ID {
			dev.PendingIssues[issue.Category][i].Status = string(model.IssueStatusInProgress)
			changed = true
		}
	}
	if !changed {
		slog.WarnContext(ctx, "assignee has no pending copy of started issue")
	} else if err := s.saveDeveloper(ctx, dev); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue started")
	s.publish(ctx, queue.EventIssueStarted, updated, &email)
	return updated, nil
}

func (s *issueService) MarkDone(ctx context.Context, issueID, email string) (*model.Issue, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID, DeveloperEmail: &email})

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != model.IssueStatusAssigned && issue.Status != model.IssueStatusInProgress {
		return nil, fmt.Errorf("%w: cannot mark issue done in status %s", ErrInvalidTransition, issue.Status)
	}
	if !issue.IsAssignee(email) {
		return nil, ErrNotAssignee
	}

	issue.Status = model.IssueStatusDone
	updated, err := s.updateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue marked done")
	s.publish(ctx, queue.EventIssueDone, updated, &email)
	return updated, nil
}

func (s *issueService) Resolve(ctx context.Context, issueID string) (*model.Issue, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issueID})

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != model.IssueStatusDone {
		return nil, fmt.Errorf("%w: cannot resolve issue in status %s", ErrInvalidTransition, issue.Status)
	}
	if issue.AssignedTo == nil {
		return nil, fmt.Errorf("%w: done issue has no assignee", ErrInvalidTransition)
	}

	email := *issue.AssignedTo
	ctx = logger.WithLogFields(ctx, logger.LogFields{DeveloperEmail: &email})

	dev, err := s.getDeveloper(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if _, ok := dev.MovePendingToResolved(issue.Category, issue.ID, now); !ok {
		return nil, ErrPendingIssueNotFound
	}
	if err := s.saveDeveloper(ctx, dev); err != nil {
		return nil, err
	}

	issue.Status = model.IssueStatusResolved
	issue.ResolvedAt = &now
	updated, err := s.updateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue resolved")
	s.publish(ctx, queue.EventIssueResolved, updated, &email)
	return updated, nil
}

func (s *issueService) Complete(ctx context.Context, issueID, email string) (*model.Issue, error) {
	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status != model.IssueStatusDone {
		if _, err := s.MarkDone(ctx, issueID, email); err != nil {
			return nil, err
		}
	} else if !issue.IsAssignee(email) {
		return nil, ErrNotAssignee
	}
	return s.Resolve(ctx, issueID)
}

func (s *issueService) getDeveloper(ctx context.Context, email string) (*model.DeveloperProfile, error) {
	dev, err := s.devStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("getting developer: %w", err)
	}
	return dev, nil
}

func (s *issueService) saveDeveloper(ctx context.Context, dev *model.DeveloperProfile) error {
	if _, err := s.devStore.SaveIssues(ctx, dev); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDeveloperNotFound
		}
		slog.ErrorContext(ctx, "failed to save developer issues", "error", err)
		return fmt.Errorf("saving developer issues: %w", err)
	}
	return nil
}

func (s *issueService) updateIssue(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	updated, err := s.issueStore.Update(ctx, issue)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIssueNotFound
		}
		slog.ErrorContext(ctx, "failed to update issue", "error", err)
		return nil, fmt.Errorf("updating issue: %w", err)
	}
	return updated, nil
}

// publish emits a lifecycle event. Failures are logged; the transition has
// already been stored.
func (s *issueService) publish(ctx context.Context, typ queue.EventType, issue *model.Issue, email *string) {
	err := s.events.Publish(ctx, queue.IssueEvent{
		Type:           typ,
		IssueID:        issue.ID,
		Category:       issue.Category,
		Status:         string(issue.Status),
		DeveloperEmail: email,
		RequestID:      logger.GetLogFields(ctx).RequestID,
		OccurredAt:     s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish issue event", "error", err, "event_type", typ)
	}
}
