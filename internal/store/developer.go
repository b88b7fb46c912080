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

type developerDoc struct {
	Key              string                           `json:"_key"`
	Email            *string                          `json:"email"`
	Name             *string                          `json:"name"`
	Expertise        map[string]float64               `json:"expertise"`
	JiraIssuesSolved map[string]int                   `json:"jiraIssuesSolved"`
	GithubCommits    map[string]int                   `json:"githubCommits"`
	PendingIssues    map[string][]model.PendingIssue  `json:"pendingIssues"`
	ResolvedIssues   map[string][]model.ResolvedIssue `json:"resolvedIssues"`
	CreatedAt        time.Time                        `json:"createdAt"`
	UpdatedAt        time.Time                        `json:"updatedAt"`
}

func (d developerDoc) toModel() (*model.DeveloperProfile, error) {
	missing := func(field string) error {
		return &DecodeError{Collection: arangodb.CollectionDeveloperProfiles, Key: d.Key, Field: field}
	}
	if d.Email == nil || *d.Email == "" {
		return nil, missing("email")
	}
	if d.Name == nil {
		return nil, missing("name")
	}
	for cat, list := range d.PendingIssues {
		for i, pi := range list {
			if pi.ID == "" {
				return nil, missing(fmt.Sprintf("pendingIssues.%s[%d].id", cat, i))
			}
		}
	}
	for cat, list := range d.ResolvedIssues {
		for i, ri := range list {
			if ri.ID == "" {
				return nil, missing(fmt.Sprintf("resolvedIssues.%s[%d].id", cat, i))
			}
		}
	}

	p := &model.DeveloperProfile{
		Email:            *d.Email,
		Name:             *d.Name,
		Expertise:        d.Expertise,
		JiraIssuesSolved: d.JiraIssuesSolved,
		GithubCommits:    d.GithubCommits,
		PendingIssues:    d.PendingIssues,
		ResolvedIssues:   d.ResolvedIssues,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	p.Normalize()
	return p, nil
}

type developerStore struct {
	client arangodb.Client
	now    func() time.Time
}

func newDeveloperStore(client arangodb.Client, now func() time.Time) DeveloperStore {
	return &developerStore{client: client, now: now}
}

const upsertDeveloperQuery = `
UPSERT { _key: @key }
INSERT MERGE({ pendingIssues: {}, resolvedIssues: {} }, @doc, { _key: @key, createdAt: @now, updatedAt: @now })
UPDATE MERGE(@doc, { updatedAt: @now })
IN @@col OPTIONS { mergeObjects: false }
RETURN NEW`

func (s *developerStore) Upsert(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error) {
	doc := map[string]any{
		"email":            profile.Email,
		"name":             profile.Name,
		"expertise":        nonNil(profile.Expertise),
		"jiraIssuesSolved": nonNil(profile.JiraIssuesSolved),
		"githubCommits":    nonNil(profile.GithubCommits),
	}
	if profile.PendingIssues != nil {
		doc["pendingIssues"] = profile.PendingIssues
	}
	if profile.ResolvedIssues != nil {
		doc["resolvedIssues"] = profile.ResolvedIssues
	}

	cursor, err := s.client.Query(ctx, upsertDeveloperQuery, map[string]any{
		"@col": arangodb.CollectionDeveloperProfiles,
		"key":  arangodb.MakeKey(profile.Email),
		"doc":  doc,
		"now":  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert developer: %w", err)
	}
	return readDeveloper(ctx, cursor)
}

func (s *developerStore) GetByEmail(ctx context.Context, email string) (*model.DeveloperProfile, error) {
	cursor, err := s.client.Query(ctx, `FOR d IN @@col FILTER d._key == @key LIMIT 1 RETURN d`, map[string]any{
		"@col": arangodb.CollectionDeveloperProfiles,
		"key":  arangodb.MakeKey(email),
	})
	if err != nil {
		return nil, fmt.Errorf("get developer: %w", err)
	}
	return readDeveloper(ctx, cursor)
}

func (s *developerStore) List(ctx context.Context) ([]model.DeveloperProfile, error) {
	cursor, err := s.client.Query(ctx, `FOR d IN @@col RETURN d`, map[string]any{
		"@col": arangodb.CollectionDeveloperProfiles,
	})
	if err != nil {
		return nil, fmt.Errorf("list developers: %w", err)
	}
	docs, err := arangodb.ReadAll[developerDoc](ctx, cursor)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.DeveloperProfile, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

const saveIssuesQuery = `
FOR d IN @@col
FILTER d._key == @key
UPDATE d WITH { pendingIssues: @pending, resolvedIssues: @resolved, updatedAt: @now }
IN @@col OPTIONS { mergeObjects: false }
RETURN NEW`

func (s *developerStore) SaveIssues(ctx context.Context, profile *model.DeveloperProfile) (*model.DeveloperProfile, error) {
	profile.Normalize()
	cursor, err := s.client.Query(ctx, saveIssuesQuery, map[string]any{
		"@col":     arangodb.CollectionDeveloperProfiles,
		"key":      arangodb.MakeKey(profile.Email),
		"pending":  profile.PendingIssues,
		"resolved": profile.ResolvedIssues,
		"now":      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save developer issues: %w", err)
	}
	return readDeveloper(ctx, cursor)
}

func readDeveloper(ctx context.Context, cursor arangodb.Cursor) (*model.DeveloperProfile, error) {
	doc, err := arangodb.ReadOne[developerDoc](ctx, cursor)
	if err != nil {
		if errors.Is(err, arangodb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func nonNil[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}
