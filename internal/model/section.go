package model

import "time"

type SectionType string

const (
	SectionOpener          SectionType = "opener"
	SectionQuestionOfMonth SectionType = "question_of_month"
	SectionCoachCorner     SectionType = "coach_corner"
	SectionHeadsUp         SectionType = "heads_up"
	SectionEvents          SectionType = "events"
	SectionMemberHighlight SectionType = "member_highlight"
	SectionMonthInReview   SectionType = "month_in_review"
	SectionLeadershipRecap SectionType = "leadership_recap"
	SectionPhotoGallery    SectionType = "photo_gallery"
	SectionCloser          SectionType = "closer"
)

// SectionOrder fixes each section's ordinal position in the assembled issue.
var SectionOrder = []SectionType{
	SectionOpener,
	SectionQuestionOfMonth,
	SectionCoachCorner,
	SectionHeadsUp,
	SectionEvents,
	SectionMemberHighlight,
	SectionMonthInReview,
	SectionLeadershipRecap,
	SectionPhotoGallery,
	SectionCloser,
}

// aiAssisted marks section types whose initial content is machine-generated.
var aiAssisted = map[SectionType]bool{
	SectionHeadsUp:         true,
	SectionEvents:          true,
	SectionMemberHighlight: true,
	SectionMonthInReview:   true,
	SectionLeadershipRecap: true,
}

func (t SectionType) AIAssisted() bool {
	return aiAssisted[t]
}

// Ordinal returns the section's position in the issue, or -1 for an
// unknown type.
func (t SectionType) Ordinal() int {
	for i, s := range SectionOrder {
		if s == t {
			return i
		}
	}
	return -1
}

func (t SectionType) Valid() bool {
	return t.Ordinal() >= 0
}

type SectionStatus string

const (
	// SectionAwaitingContent is the initial status for human-only sections
	// and for AI-assisted sections materialized before generation has run.
	SectionAwaitingContent SectionStatus = "awaiting_content"
	// SectionHasAIDraft is set by the draft generator when it fills a section.
	SectionHasAIDraft SectionStatus = "has_ai_draft"
	// SectionHumanEdited means a person has modified the content at least once.
	SectionHumanEdited SectionStatus = "human_edited"
	// SectionFinal is entered only by an explicit lock, never automatically.
	SectionFinal SectionStatus = "final"
)

// progress orders statuses so that a transition can never move backward.
var progress = map[SectionStatus]int{
	SectionAwaitingContent: 0,
	SectionHasAIDraft:      1,
	SectionHumanEdited:     2,
	SectionFinal:           3,
}

// CanTransition reports whether moving from to next is allowed. Progress is
// monotone: a locked section cannot silently revert, and re-generation cannot
// demote a human-edited section back to a draft.
func (s SectionStatus) CanTransition(next SectionStatus) bool {
	from, ok := progress[s]
	to, ok2 := progress[next]
	if !ok || !ok2 {
		return false
	}
	return to >= from
}

// Locked reports whether the section accepts no further edits.
func (s SectionStatus) Locked() bool {
	return s == SectionFinal
}

// Section is one named content block of an Issue with its own edit
// lifecycle. AIDraft preserves what the model originally produced so the
// human delta stays diffable; never collapse it into Content.
type Section struct {
	ID        int64         `json:"id"`
	IssueID   int64         `json:"issue_id"`
	Type      SectionType   `json:"type"`
	Ordinal   int           `json:"ordinal"`
	Content   string        `json:"content"`
	AIDraft   *string       `json:"ai_draft,omitempty"`
	Status    SectionStatus `json:"status"`
	EditedBy  *string       `json:"edited_by,omitempty"`
	EditedAt  *time.Time    `json:"edited_at,omitempty"`
	Message   *MessageRef   `json:"message,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
