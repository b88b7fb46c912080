package store

import (
	"context"
	"errors"
	"fmt"

	"agilesense.ai/services/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// DecodeError reports a stored document that lacks a required field.
type DecodeError struct {
	Collection string
	Key        string
	Field      string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s/%s: missing required field %q", e.Collection, e.Key, e.Field)
}

// DeveloperStore defines the contract for developer profile data access
type DeveloperStore interface {
	// Upsert creates or updates the profile keyed by email. Nil pending or
	// resolved maps leave the stored ones untouched.
	Upsert(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.DeveloperProfile, error)
	// List returns every profile in creation order.
	List(ctx context.Context) ([]model.DeveloperProfile, error)
	// SaveIssues replaces the pending and resolved issue maps of a profile.
	SaveIssues(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error)
}

// IssueStore defines the contract for issue data access
type IssueStore interface {
	Create(ctx context.Context, issue *model.Issue) (*model.Issue, error)
	GetByID(ctx context.Context, id string) (*model.Issue, error)
	// List returns issues newest first, optionally filtered by status.
	List(ctx context.Context, status *model.IssueStatus) ([]model.Issue, error)
	ListByAssignee(ctx context.Context, email string) ([]model.Issue, error)
	Update(ctx context.Context, issue *model.Issue) (*model.Issue, error)
}

// AnalysisStore defines the contract for brainstorm analysis history
type AnalysisStore interface {
	Insert(ctx context.Context, record *model.AnalysisRecord) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.AnalysisRecord, error)
}
