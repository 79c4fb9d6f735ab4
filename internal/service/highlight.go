package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/common/retry"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// HighlightQuestions are the structured prompts the spotlighted member
// answers. The answer map is keyed by these strings.
var HighlightQuestions = []string{
	"How long have you been with the club?",
	"What keeps you coming back?",
	"What's a moment from this year you're proud of?",
	"Anything the club would be surprised to learn about you?",
}

// HighlightService handles the member-highlight pipeline: nomination,
// the questionnaire request, answer submission, and decline. Composition
// of the prose from the answers happens in the draft generator.
type HighlightService interface {
	Nominate(ctx context.Context, issueID, memberID int64, nominatedBy *int64, reassign bool) (*model.MemberHighlight, error)
	// Request DMs the nominee with the questionnaire. With no nomination on
	// file it reports ReminderSkipped rather than failing, so the day-5
	// orchestrator step is a clean no-op.
	Request(ctx context.Context, issueID int64) (ReminderResult, error)
	// SubmitAnswers is an idempotent upsert of the answer map.
	SubmitAnswers(ctx context.Context, issueID, memberID int64, answers map[string]string) (*model.MemberHighlight, error)
	// Decline marks the highlight declined and surfaces it to the admin;
	// highlights are never auto-reassigned.
	Decline(ctx context.Context, issueID, memberID int64) (*model.MemberHighlight, error)
}

type highlightService struct {
	highlights store.HighlightStore
	members    store.MemberStore
	messenger  messaging.Messenger
	channel    string
}

func NewHighlightService(highlights store.HighlightStore, members store.MemberStore, messenger messaging.Messenger, channel string) HighlightService {
	return &highlightService{highlights: highlights, members: members, messenger: messenger, channel: channel}
}

func (s *highlightService) Nominate(ctx context.Context, issueID, memberID int64, nominatedBy *int64, reassign bool) (*model.MemberHighlight, error) {
	existing, err := s.highlights.GetByIssue(ctx, issueID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load highlight: %w", err)
	}
	if existing != nil && !reassign {
		return nil, ErrAlreadyAssigned
	}

	if existing != nil {
		existing.MemberID = memberID
		existing.NominatedBy = nominatedBy
		existing.Status = model.ContributionNominated
		existing.Answers = nil
		existing.Composed = nil
		existing.FinalText = nil
		existing.SubmittedAt = nil
		if err := s.highlights.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("renominate highlight: %w", err)
		}
		return existing, nil
	}

	highlight := &model.MemberHighlight{
		ID:          id.New(),
		IssueID:     issueID,
		MemberID:    memberID,
		NominatedBy: nominatedBy,
		Status:      model.ContributionNominated,
	}
	if err := s.highlights.Create(ctx, highlight); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("create highlight: %w", err)
	}
	return highlight, nil
}

func (s *highlightService) Request(ctx context.Context, issueID int64) (ReminderResult, error) {
	highlight, err := s.highlights.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ReminderSkipped, nil
		}
		return "", err
	}
	if highlight.Submitted() {
		return ReminderSkipped, nil
	}

	member, err := s.members.GetByID(ctx, highlight.MemberID)
	if err != nil {
		return "", fmt.Errorf("load nominee %d: %w", highlight.MemberID, err)
	}

	text := "You've been nominated for this month's Member Highlight! A few questions when you have a minute:"
	for _, q := range HighlightQuestions {
		text += "\n• " + q
	}
	err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, dmErr := s.messenger.SendDM(ctx, member.SlackUserID, text)
		return dmErr
	})
	if err != nil {
		return "", err
	}
	return ReminderSent, nil
}

func (s *highlightService) SubmitAnswers(ctx context.Context, issueID, memberID int64, answers map[string]string) (*model.MemberHighlight, error) {
	if len(answers) == 0 {
		return nil, ErrEmptyContent
	}
	highlight, err := s.highlights.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if highlight.MemberID != memberID {
		return nil, ErrNotAssignee
	}

	now := time.Now().UTC()
	highlight.Answers = answers
	highlight.Status = model.ContributionSubmitted
	highlight.SubmittedAt = &now
	if err := s.highlights.Update(ctx, highlight); err != nil {
		return nil, fmt.Errorf("save highlight answers: %w", err)
	}
	return highlight, nil
}

func (s *highlightService) Decline(ctx context.Context, issueID, memberID int64) (*model.MemberHighlight, error) {
	highlight, err := s.highlights.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if highlight.MemberID != memberID {
		return nil, ErrNotAssignee
	}

	highlight.Status = model.ContributionDeclined
	if err := s.highlights.Update(ctx, highlight); err != nil {
		return nil, fmt.Errorf("mark highlight declined: %w", err)
	}

	text := "This month's Member Highlight nominee declined. Please nominate someone else."
	err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, postErr := s.messenger.PostChannel(ctx, s.channel, text)
		return postErr
	})
	return highlight, err
}
