package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Business context (issue_id, section, etc.) set once at the top of
// an orchestrator step or handler shows up on every log line below it.
type LogFields struct {
	IssueID   *int64  // newsletter issue ID
	Period    *string // period identifier, e.g. "2026-01"
	Section   *string // section type being worked on
	MemberID  *int64  // contributor the action concerns
	Day       *int    // orchestrator day-of-month
	Component string  // component name, e.g. "gazette.orchestrator"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
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

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.IssueID != nil {
		result.IssueID = next.IssueID
	}
	if next.Period != nil {
		result.Period = next.Period
	}
	if next.Section != nil {
		result.Section = next.Section
	}
	if next.MemberID != nil {
		result.MemberID = next.MemberID
	}
	if next.Day != nil {
		result.Day = next.Day
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}
