package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"agilesense.ai/services/common/arangodb"
	"agilesense.ai/services/internal/model"
)

type issueDoc struct {
	Key             string             `json:"_key"`
	ID              *string            `json:"id"`
	Title           *string            `json:"title"`
	Description     *string            `json:"description"`
	Category        *string            `json:"category"`
	Status          *model.IssueStatus `json:"status"`
	Priority        model.Priority     `json:"priority"`
	SubmittedBy     *string            `json:"submittedBy"`
	SubmittedByName *string            `json:"submittedByName"`
	AssignedTo      *string            `json:"assignedTo"`
	AssignedToName  *string            `json:"assignedToName"`
	CreatedAt       *time.Time         `json:"createdAt"`
	AssignedAt      *time.Time         `json:"assignedAt"`
	ResolvedAt      *time.Time         `json:"resolvedAt"`
	TopExperts      []model.TopExpert  `json:"topExperts"`
}

func (d issueDoc) toModel() (*model.Issue, error) {
	missing := func(field string) error {
		return &DecodeError{Collection: arangodb.CollectionIssues, Key: d.Key, Field: field}
	}
	switch {
	case d.ID == nil || *d.ID == "":
		return nil, missing("id")
	case d.Title == nil:
		return nil, missing("title")
	case d.Description == nil:
		return nil, missing("description")
	case d.Category == nil:
		return nil, missing("category")
	case d.Status == nil:
		return nil, missing("status")
	case d.SubmittedBy == nil:
		return nil, missing("submittedBy")
	case d.CreatedAt == nil:
		return nil, missing("createdAt")
	}
	if *d.Status != model.IssueStatusPending && d.AssignedTo == nil {
		return nil, missing("assignedTo")
	}

	priority := d.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	return &model.Issue{
		ID:              *d.ID,
		Title:           *d.Title,
		Description:     *d.Description,
		Category:        *d.Category,
		Status:          *d.Status,
		Priority:        priority,
		SubmittedBy:     *d.SubmittedBy,
		SubmittedByName: d.SubmittedByName,
		AssignedTo:      d.AssignedTo,
		AssignedToName:  d.AssignedToName,
		CreatedAt:       *d.CreatedAt,
		AssignedAt:      d.AssignedAt,
		ResolvedAt:      d.ResolvedAt,
		TopExperts:      d.TopExperts,
	}, nil
}

type issueStore struct {
	client arangodb.Client
}

func newIssueStore(client arangodb.Client) IssueStore {
	return &issueStore{client: client}
}

func (s *issueStore) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	cursor, err := s.client.Query(ctx, `INSERT MERGE(@doc, { _key: @key }) INTO @@col RETURN NEW`, map[string]any{
		"@col": arangodb.CollectionIssues,
		"key":  issue.ID,
		"doc":  issue,
	})
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return readIssue(ctx, cursor)
}

func (s *issueStore) GetByID(ctx context.Context, id string) (*model.Issue, error) {
	cursor, err := s.client.Query(ctx, `FOR i IN @@col FILTER i._key == @key LIMIT 1 RETURN i`, map[string]any{
		"@col": arangodb.CollectionIssues,
		"key":  id,
	})
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return readIssue(ctx, cursor)
}

func (s *issueStore) List(ctx context.Context, status *model.IssueStatus) ([]model.Issue, error) {
	var filter any
	if status != nil {
		filter = string(*status)
	}
	cursor, err := s.client.Query(ctx, `FOR i IN @@col FILTER @status == null OR i.status == @status RETURN i`, map[string]any{
		"@col":   arangodb.CollectionIssues,
		"status": filter,
	})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return readIssues(ctx, cursor)
}

func (s *issueStore) ListByAssignee(ctx context.Context, email string) ([]model.Issue, error) {
	cursor, err := s.client.Query(ctx, `FOR i IN @@col FILTER i.assignedTo == @email RETURN i`, map[string]any{
		"@col":  arangodb.CollectionIssues,
		"email": email,
	})
	if err != nil {
		return nil, fmt.Errorf("list issues by assignee: %w", err)
	}
	return readIssues(ctx, cursor)
}

const replaceIssueQuery = `
FOR i IN @@col
FILTER i._key == @key
REPLACE i WITH MERGE(@doc, { _key: @key }) IN @@col
RETURN NEW`

func (s *issueStore) Update(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	cursor, err := s.client.Query(ctx, replaceIssueQuery, map[string]any{
		"@col": arangodb.CollectionIssues,
		"key":  issue.ID,
		"doc":  issue,
	})
	if err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return readIssue(ctx, cursor)
}

func readIssue(ctx context.Context, cursor arangodb.Cursor) (*model.Issue, error) {
	doc, err := arangodb.ReadOne[issueDoc](ctx, cursor)
	if err != nil {
		if errors.Is(err, arangodb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

// readIssues decodes every issue and orders them newest first.
func readIssues(ctx context.Context, cursor arangodb.Cursor) ([]model.Issue, error) {
	docs, err := arangodb.ReadAll[issueDoc](ctx, cursor)
	if err != nil {
		return nil, err
	}
	issues := make([]model.Issue, 0, len(docs))
	for _, d := range docs {
		issue, err := d.toModel()
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues, nil
}
