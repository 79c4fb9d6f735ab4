package model

import (
	"fmt"
	"time"
)

type IssueStatus string

const (
	IssueStatusBuilding       IssueStatus = "building"
	IssueStatusReadyForReview IssueStatus = "ready_for_review"
	IssueStatusApproved       IssueStatus = "approved"
	IssueStatusPublished      IssueStatus = "published"
)

// MessageRef points at a message previously posted to the platform, so it
// can be updated in place later.
type MessageRef struct {
	Channel   string `json:"channel"`
	Timestamp string `json:"ts"`
}

func (r MessageRef) IsZero() bool {
	return r.Channel == "" && r.Timestamp == ""
}

// Issue is one periodic newsletter instance. Exactly one exists per period
// identifier; it is created lazily the first time any orchestrator day fires
// for that period and is never destroyed.
type Issue struct {
	ID          int64       `json:"id"`
	Period      string      `json:"period"` // e.g. "2026-01"
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	PublishOn   time.Time   `json:"publish_on"`
	Status      IssueStatus `json:"status"`
	QOTMPrompt  *string     `json:"qotm_prompt,omitempty"`
	DigestRef   *MessageRef `json:"digest_ref,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PublishDay is the target day-of-month for sending the issue.
const PublishDay = 15

// PeriodFor formats the period identifier for the month containing t.
func PeriodFor(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// PeriodBounds returns the first day of the month containing t, the first
// day of the following month, and the target publish date.
func PeriodBounds(t time.Time) (start, end, publishOn time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0)
	publishOn = time.Date(t.Year(), t.Month(), PublishDay, 0, 0, 0, 0, t.Location())
	return start, end, publishOn
}
