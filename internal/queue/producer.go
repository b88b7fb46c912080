package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type EventType string

const (
	EventIssueCreated    EventType = "issue_created"
	EventIssueAssigned   EventType = "issue_assigned"
	EventIssueStarted    EventType = "issue_started"
	EventIssueDone       EventType = "issue_done"
	EventIssueResolved   EventType = "issue_resolved"
	EventIssueUnassigned EventType = "issue_unassigned"
)

// IssueEvent announces an issue lifecycle transition.
type IssueEvent struct {
	Type           EventType
	IssueID        string
	Category       string
	Status         string
	DeveloperEmail *string
	RequestID      *string
	OccurredAt     time.Time
}

type Producer interface {
	Publish(ctx context.Context, event IssueEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event IssueEvent) error {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	fields := map[string]any{
		"event_type":  string(event.Type),
		"issue_id":    event.IssueID,
		"category":    event.Category,
		"status":      event.Status,
		"occurred_at": occurredAt.UTC().Format(time.RFC3339Nano),
	}
	if event.DeveloperEmail != nil && *event.DeveloperEmail != "" {
		fields["developer_email"] = *event.DeveloperEmail
	}
	if event.RequestID != nil && *event.RequestID != "" {
		fields["request_id"] = *event.RequestID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("publish issue event: %w", err)
	}

	p.logger.InfoContext(ctx, "published issue event", "issue_id", event.IssueID, "event_type", event.Type)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

type noopProducer struct{}

// NewNoopProducer returns a Producer that drops every event. Used when no
// Redis URL is configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, IssueEvent) error { return nil }

func (noopProducer) Close() error { return nil }
