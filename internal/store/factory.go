package store

import (
	"context"
	"time"

	"agilesense.ai/services/common/arangodb"
	"agilesense.ai/services/core/db"
)

type Stores struct {
	arango arangodb.Client
	pg     db.Querier
	now    func() time.Time
}

// NewStores builds the store set. Either backend may be nil when the
// running service does not use it.
func NewStores(arango arangodb.Client, pg db.Querier) *Stores {
	return &Stores{arango: arango, pg: pg, now: time.Now}
}

func (s *Stores) Developers() DeveloperStore {
	return newDeveloperStore(s.arango, s.now)
}

func (s *Stores) Issues() IssueStore {
	return newIssueStore(s.arango)
}

// Analyses returns nil when no Postgres connection is configured.
func (s *Stores) Analyses() AnalysisStore {
	if s.pg == nil {
		return nil
	}
	return newAnalysisStore(s.pg)
}

// EnsureDocumentSchema creates the database, collections and indexes the
// expertise service relies on.
func EnsureDocumentSchema(ctx context.Context, client arangodb.Client) error {
	if err := client.EnsureDatabase(ctx); err != nil {
		return err
	}
	if err := client.EnsureCollections(ctx,
		arangodb.CollectionDeveloperProfiles,
		arangodb.CollectionIssues,
	); err != nil {
		return err
	}
	return client.EnsureIndexes(ctx,
		arangodb.Index{Collection: arangodb.CollectionDeveloperProfiles, Fields: []string{"email"}, Unique: true},
		arangodb.Index{Collection: arangodb.CollectionIssues, Fields: []string{"status"}},
		arangodb.Index{Collection: arangodb.CollectionIssues, Fields: []string{"assignedTo"}},
	)
}
