package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoredEvent is an IssueEvent read back from the stream.
type StoredEvent struct {
	ID    string
	Event IssueEvent
}

type Reader struct {
	client *redis.Client
	stream string
}

func NewReader(client *redis.Client, stream string) *Reader {
	return &Reader{client: client, stream: stream}
}

// Latest returns up to count events, newest first.
func (r *Reader) Latest(ctx context.Context, count int64) ([]StoredEvent, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read issue events: %w", err)
	}

	events := make([]StoredEvent, 0, len(msgs))
	for _, m := range msgs {
		events = append(events, StoredEvent{ID: m.ID, Event: ParseEvent(m.Values)})
	}
	return events, nil
}

// ParseEvent decodes stream fields written by the producer. Unknown or
// malformed fields are left zero.
func ParseEvent(values map[string]any) IssueEvent {
	str := func(key string) string {
		if v, ok := values[key].(string); ok {
			return v
		}
		return ""
	}
	opt := func(key string) *string {
		if v := str(key); v != "" {
			return &v
		}
		return nil
	}

	ev := IssueEvent{
		Type:           EventType(str("event_type")),
		IssueID:        str("issue_id"),
		Category:       str("category"),
		Status:         str("status"),
		DeveloperEmail: opt("developer_email"),
		RequestID:      opt("request_id"),
	}
	if ts, err := time.Parse(time.RFC3339Nano, str("occurred_at")); err == nil {
		ev.OccurredAt = ts
	}
	return ev
}

// NewRedisClient parses url and returns a connected client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
