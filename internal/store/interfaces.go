package store

import (
	"context"
	"errors"
	"time"

	"pinecrest.club/gazette/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create collides with an existing record
// and the caller did not ask for reassignment.
var ErrConflict = errors.New("already exists")

// IssueStore defines the contract for newsletter issue data access.
type IssueStore interface {
	// GetOrCreate is idempotent: concurrent callers for the same period
	// observe the same row.
	GetOrCreate(ctx context.Context, period string, start, end, publishOn time.Time) (*model.Issue, error)
	GetByID(ctx context.Context, id int64) (*model.Issue, error)
	GetByPeriod(ctx context.Context, period string) (*model.Issue, error)
	SetQOTMPrompt(ctx context.Context, id int64, prompt *string) error
	SetDigestRef(ctx context.Context, id int64, ref model.MessageRef) error
	UpdateStatus(ctx context.Context, id int64, status model.IssueStatus) error
}

// SectionStore defines the contract for section data access.
type SectionStore interface {
	// GetOrCreate materializes the (issue, type) section lazily with the
	// ordinal from the fixed section order and awaiting_content status.
	GetOrCreate(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error)
	Get(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error)
	ListByIssue(ctx context.Context, issueID int64) ([]model.Section, error) // ordered by ordinal
	Update(ctx context.Context, section *model.Section) error
}

// MemberStore defines the contract for member data access.
type MemberStore interface {
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	GetBySlackUserID(ctx context.Context, slackUserID string) (*model.Member, error)
	ListActiveByRole(ctx context.Context, role model.Role) ([]model.Member, error)
}

// EventStore defines the contract for event listings used as draft context.
type EventStore interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
}

// HostStore defines the contract for host spot data access.
type HostStore interface {
	GetByIssue(ctx context.Context, issueID int64) (*model.HostSpot, error)
	Create(ctx context.Context, spot *model.HostSpot) error
	Update(ctx context.Context, spot *model.HostSpot) error
	// ListSubmitted returns past submitted spots, the read model for host
	// reselection fairness when the policy flag enables it.
	ListSubmitted(ctx context.Context) ([]model.HostSpot, error)
}

// RotationStore defines the contract for coach rotation data access.
type RotationStore interface {
	GetByIssue(ctx context.Context, issueID int64) (*model.CoachRotation, error)
	Create(ctx context.Context, rotation *model.CoachRotation) error
	Update(ctx context.Context, rotation *model.CoachRotation) error
	// DeleteByIssue removes a declined rotation so reselection can assign
	// a replacement for the same issue.
	DeleteByIssue(ctx context.Context, issueID int64) error
	// ListSubmitted returns past submitted rotations, the read model the
	// fairness selector orders by.
	ListSubmitted(ctx context.Context) ([]model.CoachRotation, error)
}

// HighlightStore defines the contract for member highlight data access.
type HighlightStore interface {
	GetByIssue(ctx context.Context, issueID int64) (*model.MemberHighlight, error)
	Create(ctx context.Context, highlight *model.MemberHighlight) error
	Update(ctx context.Context, highlight *model.MemberHighlight) error
}

// QOTMStore defines the contract for question-of-the-month responses.
type QOTMStore interface {
	// Upsert overwrites in place on (issue, member); the count of distinct
	// submitters never grows on resubmission.
	Upsert(ctx context.Context, resp *model.QOTMResponse) (*model.QOTMResponse, error)
	ListByIssue(ctx context.Context, issueID int64) ([]model.QOTMResponse, error)
	// SetSelected marks exactly the given responses selected and clears the
	// flag on every other response of the issue.
	SetSelected(ctx context.Context, issueID int64, ids []int64) error
}

// PhotoStore defines the contract for photo gallery submissions.
type PhotoStore interface {
	// Upsert overwrites in place on (issue, file ref).
	Upsert(ctx context.Context, photo *model.PhotoSubmission) (*model.PhotoSubmission, error)
	// ListByIssue orders by engagement descending (default ranking).
	ListByIssue(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error)
	SetSelected(ctx context.Context, issueID int64, ids []int64) error
}
