package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers enrich the request context once and every log statement further down
// (services, stores, model adapters) carries the same business identifiers.
type LogFields struct {
	IssueID        *string // Expertise issue ID (ISSUE-YYYYMMDD-...)
	DeveloperEmail *string // Developer profile key
	Category       *string // Issue category
	SessionID      *string // Brainstorm session ID
	ParticipantID  *string // Brainstorm participant ID
	RequestID      *string // Inbound request ID (trace header)
	Component      string  // Component name (OTel semantic convention style, e.g., "expertise.service.issue")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.IssueID != nil {
		result.IssueID = new.IssueID
	}
	if new.DeveloperEmail != nil {
		result.DeveloperEmail = new.DeveloperEmail
	}
	if new.Category != nil {
		result.Category = new.Category
	}
	if new.SessionID != nil {
		result.SessionID = new.SessionID
	}
	if new.ParticipantID != nil {
		result.ParticipantID = new.ParticipantID
	}
	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{IssueID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like user text.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
