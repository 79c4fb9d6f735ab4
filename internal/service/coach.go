package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/common/retry"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/rotation"
	"pinecrest.club/gazette/internal/store"
)

// CoachService runs the coach-corner rotation: fairness-based assignment,
// the request DM, idempotent submission, decline with automatic
// reselection, and skip-if-done reminders.
type CoachService interface {
	// Assign picks the next coach by fairness rotation, or uses memberID when
	// the admin names one explicitly. Fails with ErrAlreadyAssigned when a
	// rotation exists and reassign is false; reassignment replaces it and
	// clears prior content.
	Assign(ctx context.Context, issueID int64, memberID *int64, reassign bool) (*model.CoachRotation, error)
	// Request DMs the assigned coach with the content prompt.
	Request(ctx context.Context, issueID int64) error
	// Submit is an idempotent upsert: resubmission overwrites the body in
	// place and refreshes the timestamp. The coach-corner section is written
	// through the same call.
	Submit(ctx context.Context, issueID, memberID int64, body string) (*model.CoachRotation, error)
	// Decline removes the rotation and immediately reselects. The declining
	// coach stays in the pool for future months.
	Decline(ctx context.Context, issueID, memberID int64) (*model.CoachRotation, error)
	// Remind DMs the coach unless the contribution is already submitted, in
	// which case it reports ReminderSkipped.
	Remind(ctx context.Context, issueID int64) (ReminderResult, error)
}

// ReminderResult distinguishes a sent reminder from an idempotent skip.
type ReminderResult string

const (
	ReminderSent    ReminderResult = "sent"
	ReminderSkipped ReminderResult = "skipped"
)

type coachService struct {
	rotations store.RotationStore
	members   store.MemberStore
	sections  store.SectionStore
	messenger messaging.Messenger
}

func NewCoachService(rotations store.RotationStore, members store.MemberStore, sections store.SectionStore, messenger messaging.Messenger) CoachService {
	return &coachService{rotations: rotations, members: members, sections: sections, messenger: messenger}
}

func (s *coachService) Assign(ctx context.Context, issueID int64, memberID *int64, reassign bool) (*model.CoachRotation, error) {
	existing, err := s.rotations.GetByIssue(ctx, issueID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load rotation: %w", err)
	}
	if existing != nil && !reassign {
		return nil, ErrAlreadyAssigned
	}

	selected, err := s.pick(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// Reassignment resets status and clears prior content.
		existing.MemberID = selected.ID
		existing.Status = model.ContributionAssigned
		existing.Body = nil
		existing.SubmittedAt = nil
		if err := s.rotations.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("reassign rotation: %w", err)
		}
		return existing, nil
	}

	created := &model.CoachRotation{
		ID:       id.New(),
		IssueID:  issueID,
		MemberID: selected.ID,
		Status:   model.ContributionAssigned,
	}
	if err := s.rotations.Create(ctx, created); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("create rotation: %w", err)
	}
	return created, nil
}

// pick resolves the assignee: an explicit member when given, otherwise the
// fairness selection over the coach pool and submission history.
func (s *coachService) pick(ctx context.Context, memberID *int64) (*model.Member, error) {
	if memberID != nil {
		member, err := s.members.GetByID(ctx, *memberID)
		if err != nil {
			return nil, fmt.Errorf("load member %d: %w", *memberID, err)
		}
		return member, nil
	}

	pool, err := s.members.ListActiveByRole(ctx, model.RoleCoach)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	history, err := s.rotations.ListSubmitted(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rotation history: %w", err)
	}
	selected := rotation.Select(pool, rotation.CoachHistory(history))
	if selected == nil {
		return nil, ErrNoEligibleMembers
	}
	return selected, nil
}

func (s *coachService) Request(ctx context.Context, issueID int64) error {
	_, member, err := s.assignee(ctx, issueID)
	if err != nil {
		return err
	}

	text := "You're up for this month's Coach's Corner! Reply here with a short piece for the newsletter: a tip, a story, whatever you'd tell the club."
	return retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, err := s.messenger.SendDM(ctx, member.SlackUserID, text)
		return err
	})
}

func (s *coachService) Submit(ctx context.Context, issueID, memberID int64, body string) (*model.CoachRotation, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}
	rot, err := s.rotations.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if rot.MemberID != memberID {
		return nil, ErrNotAssignee
	}

	now := time.Now().UTC()
	rot.Body = &body
	rot.Status = model.ContributionSubmitted
	rot.SubmittedAt = &now
	if err := s.rotations.Update(ctx, rot); err != nil {
		return nil, fmt.Errorf("save rotation: %w", err)
	}

	if err := s.writeSection(ctx, issueID, body, memberID); err != nil {
		return nil, err
	}
	return rot, nil
}

func (s *coachService) writeSection(ctx context.Context, issueID int64, body string, memberID int64) error {
	section, err := s.sections.GetOrCreate(ctx, issueID, model.SectionCoachCorner)
	if err != nil {
		return fmt.Errorf("materialize coach corner: %w", err)
	}
	if section.Status.Locked() {
		return ErrSectionLocked
	}

	now := time.Now().UTC()
	editor := fmt.Sprintf("member:%d", memberID)
	section.Content = body
	section.Status = model.SectionHumanEdited
	section.EditedBy = &editor
	section.EditedAt = &now
	if err := s.sections.Update(ctx, section); err != nil {
		return fmt.Errorf("update coach corner: %w", err)
	}
	return nil
}

func (s *coachService) Decline(ctx context.Context, issueID, memberID int64) (*model.CoachRotation, error) {
	rot, err := s.rotations.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if rot.MemberID != memberID {
		return nil, ErrNotAssignee
	}

	if err := s.rotations.DeleteByIssue(ctx, issueID); err != nil {
		return nil, fmt.Errorf("remove declined rotation: %w", err)
	}

	pool, err := s.members.ListActiveByRole(ctx, model.RoleCoach)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	// The decliner stays eligible for future months but is excluded from
	// this month's reselection.
	filtered := pool[:0]
	for _, m := range pool {
		if m.ID != memberID {
			filtered = append(filtered, m)
		}
	}
	history, err := s.rotations.ListSubmitted(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rotation history: %w", err)
	}
	selected := rotation.Select(filtered, rotation.CoachHistory(history))
	if selected == nil {
		return nil, ErrNoEligibleMembers
	}

	replacement, err := s.Assign(ctx, issueID, &selected.ID, false)
	if err != nil {
		return nil, fmt.Errorf("reselect coach: %w", err)
	}
	if err := s.Request(ctx, issueID); err != nil {
		return replacement, fmt.Errorf("notify replacement coach: %w", err)
	}
	return replacement, nil
}

func (s *coachService) Remind(ctx context.Context, issueID int64) (ReminderResult, error) {
	rot, member, err := s.assignee(ctx, issueID)
	if err != nil {
		return "", err
	}
	if rot.Submitted() {
		return ReminderSkipped, nil
	}

	text := "Friendly nudge: your Coach's Corner piece for this month's Gazette is still open. Reply here whenever it's ready."
	err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, err := s.messenger.SendDM(ctx, member.SlackUserID, text)
		return err
	})
	if err != nil {
		return "", err
	}
	return ReminderSent, nil
}

func (s *coachService) assignee(ctx context.Context, issueID int64) (*model.CoachRotation, *model.Member, error) {
	rot, err := s.rotations.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotAssigned
		}
		return nil, nil, err
	}
	member, err := s.members.GetByID(ctx, rot.MemberID)
	if err != nil {
		return nil, nil, fmt.Errorf("load coach %d: %w", rot.MemberID, err)
	}
	return rot, member, nil
}
