package model

import "time"

// ContributionStatus tracks one contributor's progress against one issue.
type ContributionStatus string

const (
	ContributionAssigned  ContributionStatus = "assigned"
	ContributionNominated ContributionStatus = "nominated"
	ContributionSubmitted ContributionStatus = "submitted"
	ContributionDeclined  ContributionStatus = "declined"
)

// HostSpot is the month's host assignment. The host writes the opener and
// closer. Hosts may be external guests without a platform account, in which
// case MemberID is nil and GuestName carries their identity.
type HostSpot struct {
	ID          int64              `json:"id"`
	IssueID     int64              `json:"issue_id"`
	MemberID    *int64             `json:"member_id,omitempty"`
	GuestName   *string            `json:"guest_name,omitempty"`
	Status      ContributionStatus `json:"status"`
	Opener      *string            `json:"opener,omitempty"`
	Closer      *string            `json:"closer,omitempty"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (h *HostSpot) Submitted() bool {
	return h.Status == ContributionSubmitted
}

// CoachRotation is the month's coach-corner assignment. Selection history is
// derived from past rotations' SubmittedAt, not from separate counters.
type CoachRotation struct {
	ID          int64              `json:"id"`
	IssueID     int64              `json:"issue_id"`
	MemberID    int64              `json:"member_id"`
	Status      ContributionStatus `json:"status"`
	Body        *string            `json:"body,omitempty"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (c *CoachRotation) Submitted() bool {
	return c.Status == ContributionSubmitted
}

// MemberHighlight spotlights one member per issue. Answers hold the
// structured question/answer pairs; Composed is the AI prose derived from
// them; FinalText is the human-approved version.
type MemberHighlight struct {
	ID          int64              `json:"id"`
	IssueID     int64              `json:"issue_id"`
	MemberID    int64              `json:"member_id"`
	NominatedBy *int64             `json:"nominated_by,omitempty"`
	Status      ContributionStatus `json:"status"`
	Answers     map[string]string  `json:"answers"`
	Composed    *string            `json:"composed,omitempty"`
	FinalText   *string            `json:"final_text,omitempty"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (m *MemberHighlight) Submitted() bool {
	return m.Status == ContributionSubmitted
}
