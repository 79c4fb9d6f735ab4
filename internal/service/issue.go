package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinecrest.club/gazette/common/retry"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// IssueService owns the issue lifecycle: lazy per-period creation, the
// living digest message, review/approve, and the deliberate manual publish.
type IssueService interface {
	GetOrCreate(ctx context.Context, at time.Time) (*model.Issue, error)
	GetByPeriod(ctx context.Context, period string) (*model.Issue, error)
	SetQOTMPrompt(ctx context.Context, issueID int64, prompt string) error
	// RefreshDigest posts the issue status digest to the channel, or updates
	// it in place when one was posted before.
	RefreshDigest(ctx context.Context, issue *model.Issue) error
	MarkReadyForReview(ctx context.Context, issue *model.Issue) error
	Approve(ctx context.Context, issueID int64) error
	// Publish renders every non-empty section into the channel and marks the
	// issue published. Never called by the orchestrator; an admin triggers it.
	Publish(ctx context.Context, issueID int64) (*model.Issue, error)
}

type issueService struct {
	issues    store.IssueStore
	sections  store.SectionStore
	messenger messaging.Messenger
	channel   string
}

func NewIssueService(issues store.IssueStore, sections store.SectionStore, messenger messaging.Messenger, channel string) IssueService {
	return &issueService{issues: issues, sections: sections, messenger: messenger, channel: channel}
}

func (s *issueService) GetOrCreate(ctx context.Context, at time.Time) (*model.Issue, error) {
	period := model.PeriodFor(at)
	start, end, publishOn := model.PeriodBounds(at)

	issue, err := s.issues.GetOrCreate(ctx, period, start, end, publishOn)
	if err != nil {
		return nil, fmt.Errorf("get or create issue %s: %w", period, err)
	}
	return issue, nil
}

func (s *issueService) GetByPeriod(ctx context.Context, period string) (*model.Issue, error) {
	return s.issues.GetByPeriod(ctx, period)
}

func (s *issueService) SetQOTMPrompt(ctx context.Context, issueID int64, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyContent
	}
	return s.issues.SetQOTMPrompt(ctx, issueID, &prompt)
}

func (s *issueService) RefreshDigest(ctx context.Context, issue *model.Issue) error {
	sections, err := s.sections.ListByIssue(ctx, issue.ID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	text := digestText(issue, sections)

	if issue.DigestRef != nil && !issue.DigestRef.IsZero() {
		return retry.Do(ctx, 3, messaging.IsRetryable, func() error {
			return s.messenger.UpdateMessage(ctx, *issue.DigestRef, text)
		})
	}

	var ref model.MessageRef
	err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		var postErr error
		ref, postErr = s.messenger.PostChannel(ctx, s.channel, text)
		return postErr
	})
	if err != nil {
		return fmt.Errorf("post digest: %w", err)
	}
	if err := s.issues.SetDigestRef(ctx, issue.ID, ref); err != nil {
		return fmt.Errorf("save digest ref: %w", err)
	}
	issue.DigestRef = &ref
	return nil
}

func (s *issueService) MarkReadyForReview(ctx context.Context, issue *model.Issue) error {
	if issue.Status == model.IssueStatusPublished {
		return ErrAlreadyPublished
	}
	if err := s.issues.UpdateStatus(ctx, issue.ID, model.IssueStatusReadyForReview); err != nil {
		return err
	}
	issue.Status = model.IssueStatusReadyForReview

	text := fmt.Sprintf("The %s issue is ready for review. Look it over and approve when it is good to go.", issue.Period)
	return retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, err := s.messenger.PostChannel(ctx, s.channel, text)
		return err
	})
}

func (s *issueService) Approve(ctx context.Context, issueID int64) error {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return err
	}
	if issue.Status == model.IssueStatusPublished {
		return ErrAlreadyPublished
	}
	return s.issues.UpdateStatus(ctx, issueID, model.IssueStatusApproved)
}

func (s *issueService) Publish(ctx context.Context, issueID int64) (*model.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == model.IssueStatusPublished {
		return nil, ErrAlreadyPublished
	}
	if issue.Status != model.IssueStatusApproved {
		return nil, ErrNotApproved
	}

	sections, err := s.sections.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	header := fmt.Sprintf(":newspaper: *The Pinecrest Gazette, %s edition*", issue.Period)
	if err := retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, postErr := s.messenger.PostChannel(ctx, s.channel, header)
		return postErr
	}); err != nil {
		return nil, fmt.Errorf("post header: %w", err)
	}

	for i := range sections {
		section := &sections[i]
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		text := fmt.Sprintf("*%s*\n%s", sectionTitle(section.Type), section.Content)

		// Sections already rendered (e.g. a previous partial publish) are
		// updated in place through their stored ref.
		if section.Message != nil && !section.Message.IsZero() {
			err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
				return s.messenger.UpdateMessage(ctx, *section.Message, text)
			})
			if err != nil {
				return nil, fmt.Errorf("update section %s: %w", section.Type, err)
			}
			continue
		}

		var ref model.MessageRef
		err = retry.Do(ctx, 3, messaging.IsRetryable, func() error {
			var postErr error
			ref, postErr = s.messenger.PostChannel(ctx, s.channel, text)
			return postErr
		})
		if err != nil {
			return nil, fmt.Errorf("post section %s: %w", section.Type, err)
		}
		section.Message = &ref
		if err := s.sections.Update(ctx, section); err != nil {
			return nil, fmt.Errorf("save section %s message ref: %w", section.Type, err)
		}
	}

	if err := s.issues.UpdateStatus(ctx, issue.ID, model.IssueStatusPublished); err != nil {
		return nil, err
	}
	issue.Status = model.IssueStatusPublished
	return issue, nil
}

var sectionTitles = map[model.SectionType]string{
	model.SectionOpener:          "Welcome",
	model.SectionQuestionOfMonth: "Question of the Month",
	model.SectionCoachCorner:     "Coach's Corner",
	model.SectionHeadsUp:         "Heads Up",
	model.SectionEvents:          "Upcoming Events",
	model.SectionMemberHighlight: "Member Highlight",
	model.SectionMonthInReview:   "Month in Review",
	model.SectionLeadershipRecap: "Leadership Recap",
	model.SectionPhotoGallery:    "Photo Gallery",
	model.SectionCloser:          "Until Next Month",
}

func sectionTitle(t model.SectionType) string {
	if title, ok := sectionTitles[t]; ok {
		return title
	}
	return string(t)
}

// digestText renders the living status overview: one line per section in
// issue order, with a state marker and a short preview.
func digestText(issue *model.Issue, sections []model.Section) string {
	byType := make(map[model.SectionType]*model.Section, len(sections))
	for i := range sections {
		byType[sections[i].Type] = &sections[i]
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":newspaper: *Gazette %s (%s)*\n", issue.Period, issue.Status)
	for _, t := range model.SectionOrder {
		section, ok := byType[t]
		if !ok {
			fmt.Fprintf(&b, "%s %s\n", statusMarker(model.SectionAwaitingContent), sectionTitle(t))
			continue
		}
		line := fmt.Sprintf("%s %s", statusMarker(section.Status), sectionTitle(t))
		if preview := firstLine(section.Content); preview != "" {
			line += ": " + preview
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusMarker(s model.SectionStatus) string {
	switch s {
	case model.SectionFinal:
		return ":white_check_mark:"
	case model.SectionHumanEdited:
		return ":pencil2:"
	case model.SectionHasAIDraft:
		return ":robot_face:"
	default:
		return ":hourglass:"
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const previewLimit = 60
	runes := []rune(line)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return line
}
