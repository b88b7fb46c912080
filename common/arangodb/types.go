package arangodb

import "context"

// Collection names used by the expertise service.
const (
	CollectionDeveloperProfiles = "developer_profiles"
	CollectionIssues            = "issues"
)

// Cursor iterates over the results of an AQL query.
type Cursor interface {
	HasMore() bool
	ReadDocument(ctx context.Context, out any) error
	Close() error
}

// Index describes a persistent index ensured on a collection.
type Index struct {
	Collection string
	Fields     []string
	Unique     bool
}
