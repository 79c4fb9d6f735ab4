package model

import "time"

// QOTMResponse is one member's answer to the question of the month.
// At most one exists per (issue, member); resubmission overwrites in place.
type QOTMResponse struct {
	ID          int64     `json:"id"`
	IssueID     int64     `json:"issue_id"`
	MemberID    int64     `json:"member_id"`
	Text        string    `json:"text"`
	Selected    bool      `json:"selected"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PhotoSubmission is one media item submitted for the photo gallery.
// At most one exists per (issue, file ref); resubmitting the same item
// updates the caption rather than duplicating the row.
type PhotoSubmission struct {
	ID          int64     `json:"id"`
	IssueID     int64     `json:"issue_id"`
	MemberID    int64     `json:"member_id"`
	FileRef     string    `json:"file_ref"`
	Caption     *string   `json:"caption,omitempty"`
	Engagement  int       `json:"engagement"` // reactions count, used for default ranking
	Selected    bool      `json:"selected"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
