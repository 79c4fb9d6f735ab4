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

// HostService manages the monthly host spot. Hosts write the opener and
// closer; they may be club members or external guests without a platform
// account. Declines go to the admin for manual reassignment unless the
// auto-reselect policy flag is on.
type HostService interface {
	// Assign creates the host spot for a member or a named guest. Exactly
	// one of memberID and guestName must be set.
	Assign(ctx context.Context, issueID int64, memberID *int64, guestName *string, reassign bool) (*model.HostSpot, error)
	// Notify DMs the assigned host with the writing prompt. Guests have no
	// platform identity, so their notification is posted for the admin to
	// relay and the result reports ReminderSkipped.
	Notify(ctx context.Context, issueID int64) (ReminderResult, error)
	// Submit stores the opener and closer and writes both sections.
	// Idempotent: resubmission overwrites in place.
	Submit(ctx context.Context, issueID int64, opener, closer string) (*model.HostSpot, error)
	Decline(ctx context.Context, issueID int64) (*model.HostSpot, error)
	Remind(ctx context.Context, issueID int64) (ReminderResult, error)
}

type hostService struct {
	hosts        store.HostStore
	members      store.MemberStore
	sections     store.SectionStore
	messenger    messaging.Messenger
	channel      string
	autoReselect bool
}

func NewHostService(hosts store.HostStore, members store.MemberStore, sections store.SectionStore, messenger messaging.Messenger, channel string, autoReselect bool) HostService {
	return &hostService{
		hosts:        hosts,
		members:      members,
		sections:     sections,
		messenger:    messenger,
		channel:      channel,
		autoReselect: autoReselect,
	}
}

func (s *hostService) Assign(ctx context.Context, issueID int64, memberID *int64, guestName *string, reassign bool) (*model.HostSpot, error) {
	if (memberID == nil) == (guestName == nil) {
		return nil, fmt.Errorf("%w: exactly one of member and guest required", ErrNotAssignee)
	}

	existing, err := s.hosts.GetByIssue(ctx, issueID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load host spot: %w", err)
	}
	if existing != nil && !reassign {
		return nil, ErrAlreadyAssigned
	}

	if existing != nil {
		existing.MemberID = memberID
		existing.GuestName = guestName
		existing.Status = model.ContributionAssigned
		existing.Opener = nil
		existing.Closer = nil
		existing.SubmittedAt = nil
		if err := s.hosts.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("reassign host spot: %w", err)
		}
		return existing, nil
	}

	spot := &model.HostSpot{
		ID:        id.New(),
		IssueID:   issueID,
		MemberID:  memberID,
		GuestName: guestName,
		Status:    model.ContributionAssigned,
	}
	if err := s.hosts.Create(ctx, spot); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("create host spot: %w", err)
	}
	return spot, nil
}

func (s *hostService) Notify(ctx context.Context, issueID int64) (ReminderResult, error) {
	spot, err := s.spot(ctx, issueID)
	if err != nil {
		return "", err
	}
	text := "You're hosting this month's Gazette! Send over your opener and closer whenever they're ready."
	return s.message(ctx, spot, text)
}

func (s *hostService) Submit(ctx context.Context, issueID int64, opener, closer string) (*model.HostSpot, error) {
	if strings.TrimSpace(opener) == "" || strings.TrimSpace(closer) == "" {
		return nil, ErrEmptyContent
	}
	spot, err := s.spot(ctx, issueID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	spot.Opener = &opener
	spot.Closer = &closer
	spot.Status = model.ContributionSubmitted
	spot.SubmittedAt = &now
	if err := s.hosts.Update(ctx, spot); err != nil {
		return nil, fmt.Errorf("save host spot: %w", err)
	}

	editor := hostEditor(spot)
	if err := s.writeSection(ctx, issueID, model.SectionOpener, opener, editor); err != nil {
		return nil, err
	}
	if err := s.writeSection(ctx, issueID, model.SectionCloser, closer, editor); err != nil {
		return nil, err
	}
	return spot, nil
}

func (s *hostService) writeSection(ctx context.Context, issueID int64, t model.SectionType, content, editor string) error {
	section, err := s.sections.GetOrCreate(ctx, issueID, t)
	if err != nil {
		return fmt.Errorf("materialize %s: %w", t, err)
	}
	if section.Status.Locked() {
		return ErrSectionLocked
	}

	now := time.Now().UTC()
	section.Content = content
	section.Status = model.SectionHumanEdited
	section.EditedBy = &editor
	section.EditedAt = &now
	if err := s.sections.Update(ctx, section); err != nil {
		return fmt.Errorf("update %s: %w", t, err)
	}
	return nil
}

func (s *hostService) Decline(ctx context.Context, issueID int64) (*model.HostSpot, error) {
	spot, err := s.spot(ctx, issueID)
	if err != nil {
		return nil, err
	}

	spot.Status = model.ContributionDeclined
	if err := s.hosts.Update(ctx, spot); err != nil {
		return nil, fmt.Errorf("mark host declined: %w", err)
	}

	if !s.autoReselect {
		// Hosting is a curated role: hand it back to the admin.
		text := fmt.Sprintf("%s declined this month's host spot. Please assign a replacement.", hostName(spot))
		err := retry.Do(ctx, 3, messaging.IsRetryable, func() error {
			_, postErr := s.messenger.PostChannel(ctx, s.channel, text)
			return postErr
		})
		return spot, err
	}

	pool, err := s.members.ListActiveByRole(ctx, model.RoleHost)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	// The declining host is excluded from this month's reselection only.
	if spot.MemberID != nil {
		filtered := pool[:0]
		for _, m := range pool {
			if m.ID != *spot.MemberID {
				filtered = append(filtered, m)
			}
		}
		pool = filtered
	}

	history, err := s.hosts.ListSubmitted(ctx)
	if err != nil {
		return nil, fmt.Errorf("load host history: %w", err)
	}
	selected := rotation.Select(pool, rotation.HostHistory(history))
	if selected == nil {
		return nil, ErrNoEligibleMembers
	}

	replacement, err := s.Assign(ctx, issueID, &selected.ID, nil, true)
	if err != nil {
		return nil, err
	}
	if _, err := s.Notify(ctx, issueID); err != nil {
		return replacement, fmt.Errorf("notify replacement host: %w", err)
	}
	return replacement, nil
}

func (s *hostService) Remind(ctx context.Context, issueID int64) (ReminderResult, error) {
	spot, err := s.spot(ctx, issueID)
	if err != nil {
		return "", err
	}
	if spot.Submitted() {
		return ReminderSkipped, nil
	}
	text := "Friendly nudge: the opener and closer for this month's Gazette are still open."
	return s.message(ctx, spot, text)
}

// message DMs a member host; guest hosts are unreachable on the platform,
// so the call reports a skip instead of failing.
func (s *hostService) message(ctx context.Context, spot *model.HostSpot, text string) (ReminderResult, error) {
	if spot.MemberID == nil {
		return ReminderSkipped, nil
	}
	member, err := s.members.GetByID(ctx, *spot.MemberID)
	if err != nil {
		return "", fmt.Errorf("load host %d: %w", *spot.MemberID, err)
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

func (s *hostService) spot(ctx context.Context, issueID int64) (*model.HostSpot, error) {
	spot, err := s.hosts.GetByIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	return spot, nil
}

func hostName(spot *model.HostSpot) string {
	if spot.GuestName != nil {
		return *spot.GuestName
	}
	if spot.MemberID != nil {
		return fmt.Sprintf("member %d", *spot.MemberID)
	}
	return "the host"
}

func hostEditor(spot *model.HostSpot) string {
	if spot.MemberID != nil {
		return fmt.Sprintf("member:%d", *spot.MemberID)
	}
	if spot.GuestName != nil {
		return "guest:" + *spot.GuestName
	}
	return "host"
}
