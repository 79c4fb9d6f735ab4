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

// QOTMService runs the question of the month: the channel-visible prompt,
// idempotent member responses, and admin curation into the section.
type QOTMService interface {
	// PostPrompt posts the issue's question to the channel. Submissions are
	// channel-wide, not 1:1, so the prompt is public. With no prompt set it
	// reports ReminderSkipped.
	PostPrompt(ctx context.Context, issue *model.Issue) (ReminderResult, error)
	// SubmitResponse upserts one member's answer. Resubmission overwrites in
	// place; the count of distinct submitters never grows.
	SubmitResponse(ctx context.Context, issueID, memberID int64, responseText string) (*model.QOTMResponse, error)
	ListResponses(ctx context.Context, issueID int64) ([]model.QOTMResponse, error)
	// Curate marks exactly the given responses selected and rewrites the
	// question-of-month section from the selection.
	Curate(ctx context.Context, issueID int64, responseIDs []int64) error
}

type qotmService struct {
	issues    store.IssueStore
	responses store.QOTMStore
	sections  store.SectionStore
	messenger messaging.Messenger
	channel   string
}

func NewQOTMService(issues store.IssueStore, responses store.QOTMStore, sections store.SectionStore, messenger messaging.Messenger, channel string) QOTMService {
	return &qotmService{issues: issues, responses: responses, sections: sections, messenger: messenger, channel: channel}
}

func (s *qotmService) PostPrompt(ctx context.Context, issue *model.Issue) (ReminderResult, error) {
	if issue.QOTMPrompt == nil || strings.TrimSpace(*issue.QOTMPrompt) == "" {
		return ReminderSkipped, nil
	}
	text := fmt.Sprintf(":thought_balloon: *Question of the Month:* %s\nReply in a thread or DM the Gazette bot with your answer!", *issue.QOTMPrompt)
	err := retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		_, postErr := s.messenger.PostChannel(ctx, s.channel, text)
		return postErr
	})
	if err != nil {
		return "", err
	}
	return ReminderSent, nil
}

func (s *qotmService) SubmitResponse(ctx context.Context, issueID, memberID int64, responseText string) (*model.QOTMResponse, error) {
	if strings.TrimSpace(responseText) == "" {
		return nil, ErrEmptyContent
	}
	resp, err := s.responses.Upsert(ctx, &model.QOTMResponse{
		IssueID:  issueID,
		MemberID: memberID,
		Text:     responseText,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert qotm response: %w", err)
	}
	return resp, nil
}

func (s *qotmService) ListResponses(ctx context.Context, issueID int64) ([]model.QOTMResponse, error) {
	return s.responses.ListByIssue(ctx, issueID)
}

func (s *qotmService) Curate(ctx context.Context, issueID int64, responseIDs []int64) error {
	all, err := s.responses.ListByIssue(ctx, issueID)
	if err != nil {
		return fmt.Errorf("list responses: %w", err)
	}
	known := make(map[int64]*model.QOTMResponse, len(all))
	for i := range all {
		known[all[i].ID] = &all[i]
	}
	var selected []*model.QOTMResponse
	for _, rid := range responseIDs {
		resp, ok := known[rid]
		if !ok {
			return fmt.Errorf("response %d: %w", rid, store.ErrNotFound)
		}
		selected = append(selected, resp)
	}

	if err := s.responses.SetSelected(ctx, issueID, responseIDs); err != nil {
		return fmt.Errorf("set selected responses: %w", err)
	}
	return s.writeSection(ctx, issueID, selected)
}

func (s *qotmService) writeSection(ctx context.Context, issueID int64, selected []*model.QOTMResponse) error {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return err
	}

	section, err := s.sections.GetOrCreate(ctx, issueID, model.SectionQuestionOfMonth)
	if err != nil {
		return fmt.Errorf("materialize qotm section: %w", err)
	}
	if section.Status.Locked() {
		return ErrSectionLocked
	}

	var b strings.Builder
	if issue.QOTMPrompt != nil {
		b.WriteString(*issue.QOTMPrompt + "\n")
	}
	for _, resp := range selected {
		fmt.Fprintf(&b, "\n> %s", resp.Text)
	}

	now := time.Now().UTC()
	editor := "curation"
	section.Content = strings.TrimSpace(b.String())
	section.Status = model.SectionHumanEdited
	section.EditedBy = &editor
	section.EditedAt = &now
	if err := s.sections.Update(ctx, section); err != nil {
		return fmt.Errorf("update qotm section: %w", err)
	}
	return nil
}
