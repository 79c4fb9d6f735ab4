package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/common/retry"
	"pinecrest.club/gazette/common/text"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// CharCeiling is the platform's input-field character limit. Generated
// content is truncated to this before persisting; a truncated draft is
// still editable, so overflow degrades silently instead of failing.
const CharCeiling = 2900

const draftSystemPrompt = "You write short, warm sections for a community club newsletter. " +
	"Plain prose, no markdown headers, no emoji. Stay under 2500 characters."

// DraftService fills AI-assisted sections. Each section is generated
// independently: one failed completion is recorded and the rest proceed.
type DraftService interface {
	// GenerateAll runs generation for every AI-assisted section type and
	// returns per-section action notes alongside per-section errors.
	GenerateAll(ctx context.Context, issue *model.Issue) (actions []string, errs []error)
	// Generate fills one section, skipping it when a human already edited
	// or locked it.
	Generate(ctx context.Context, issue *model.Issue, sectionType model.SectionType) (string, error)
}

type draftService struct {
	sections   store.SectionStore
	events     store.EventStore
	highlights store.HighlightStore
	messenger  messaging.Messenger
	generator  llm.Client
	channel    string
	maxTokens  int
}

func NewDraftService(sections store.SectionStore, events store.EventStore, highlights store.HighlightStore, messenger messaging.Messenger, generator llm.Client, channel string, maxTokens int) DraftService {
	return &draftService{
		sections:   sections,
		events:     events,
		highlights: highlights,
		messenger:  messenger,
		generator:  generator,
		channel:    channel,
		maxTokens:  maxTokens,
	}
}

func (s *draftService) GenerateAll(ctx context.Context, issue *model.Issue) ([]string, []error) {
	var actions []string
	var errs []error
	for _, t := range model.SectionOrder {
		if !t.AIAssisted() {
			continue
		}
		note, err := s.Generate(ctx, issue, t)
		if err != nil {
			errs = append(errs, fmt.Errorf("generate %s: %w", t, err))
			continue
		}
		actions = append(actions, fmt.Sprintf("%s: %s", t, note))
	}
	return actions, errs
}

func (s *draftService) Generate(ctx context.Context, issue *model.Issue, sectionType model.SectionType) (string, error) {
	if !sectionType.AIAssisted() {
		return "", fmt.Errorf("%w: %s is not AI-assisted", ErrInvalidSectionType, sectionType)
	}

	section, err := s.sections.GetOrCreate(ctx, issue.ID, sectionType)
	if err != nil {
		return "", fmt.Errorf("materialize section: %w", err)
	}
	// Re-runs never demote human work back to a draft.
	if !section.Status.CanTransition(model.SectionHasAIDraft) {
		return "skipped, already edited", nil
	}

	prompt, skip, err := s.buildPrompt(ctx, issue, sectionType)
	if err != nil {
		return "", err
	}
	if skip != "" {
		return skip, nil
	}

	var generated string
	err = retry.Do(ctx, 3, llm.IsRetryable, func() error {
		var genErr error
		generated, genErr = s.generator.Generate(ctx, llm.Request{
			SystemPrompt: draftSystemPrompt,
			UserPrompt:   prompt,
			MaxTokens:    s.maxTokens,
			Temperature:  llm.Temp(0.7),
		})
		return genErr
	})
	if err != nil {
		return "", err
	}

	if text.Exceeds(generated, CharCeiling) {
		slog.WarnContext(ctx, "generated draft exceeds character ceiling, truncating",
			"section", sectionType, "chars", len([]rune(generated)), "ceiling", CharCeiling)
		generated = text.Truncate(generated, CharCeiling)
	}

	section.Content = generated
	section.AIDraft = &generated
	section.Status = model.SectionHasAIDraft
	if err := s.sections.Update(ctx, section); err != nil {
		return "", fmt.Errorf("persist draft: %w", err)
	}

	if sectionType == model.SectionMemberHighlight {
		if err := s.saveComposedHighlight(ctx, issue.ID, generated); err != nil {
			return "", err
		}
	}
	return "draft generated", nil
}

// buildPrompt assembles the per-type context. A non-empty skip string means
// the section has nothing to generate from this month; that is a normal
// outcome, not an error.
func (s *draftService) buildPrompt(ctx context.Context, issue *model.Issue, sectionType model.SectionType) (prompt, skip string, err error) {
	now := time.Now().UTC()

	switch sectionType {
	case model.SectionHeadsUp:
		messages, err := s.channelHistory(ctx, now.AddDate(0, 0, -14), now, 100)
		if err != nil {
			return "", "", err
		}
		if len(messages) == 0 {
			return "", "skipped, no recent announcements", nil
		}
		return "Summarize the announcements below into a 'heads up' section of things members should know about:\n\n" +
			joinMessages(messages), "", nil

	case model.SectionEvents:
		events, err := s.events.ListBetween(ctx, issue.PublishOn, issue.PublishOn.AddDate(0, 2, 0))
		if err != nil {
			return "", "", fmt.Errorf("list events: %w", err)
		}
		if len(events) == 0 {
			return "", "skipped, no upcoming events", nil
		}
		var b strings.Builder
		for _, e := range events {
			fmt.Fprintf(&b, "- %s on %s", e.Title, e.StartsAt.Format("Monday, January 2"))
			if e.Location != nil {
				fmt.Fprintf(&b, " at %s", *e.Location)
			}
			b.WriteString("\n")
		}
		return "Write an upcoming-events section from this list. Keep every date and place accurate:\n\n" + b.String(), "", nil

	case model.SectionMemberHighlight:
		highlight, err := s.highlights.GetByIssue(ctx, issue.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return "", "skipped, no highlight on file", nil
			}
			return "", "", fmt.Errorf("load highlight: %w", err)
		}
		if !highlight.Submitted() || len(highlight.Answers) == 0 {
			return "", "skipped, answers not submitted", nil
		}
		var b strings.Builder
		for _, q := range HighlightQuestions {
			if a, ok := highlight.Answers[q]; ok && a != "" {
				fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", q, a)
			}
		}
		// Extra questions sorted so the prompt is stable across runs.
		var extra []string
		for q, a := range highlight.Answers {
			if !knownQuestion(q) && a != "" {
				extra = append(extra, q)
			}
		}
		sort.Strings(extra)
		for _, q := range extra {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", q, highlight.Answers[q])
		}
		return "Turn this member interview into a friendly highlight piece, written in the third person:\n\n" + b.String(), "", nil

	case model.SectionMonthInReview:
		messages, err := s.channelHistory(ctx, issue.PeriodStart, now, 200)
		if err != nil {
			return "", "", err
		}
		if len(messages) == 0 {
			return "", "skipped, no channel activity", nil
		}
		return "Write a 'month in review' recap of club life from this channel activity. Mention highlights, not every message:\n\n" +
			joinMessages(messages), "", nil

	case model.SectionLeadershipRecap:
		messages, err := s.channelHistory(ctx, now.AddDate(0, -1, 0), now, 100)
		if err != nil {
			return "", "", err
		}
		if len(messages) == 0 {
			return "", "skipped, no channel activity", nil
		}
		return "Write a short recap of decisions and updates from leadership based on this activity:\n\n" +
			joinMessages(messages), "", nil
	}

	return "", "", fmt.Errorf("%w: %s", ErrInvalidSectionType, sectionType)
}

func (s *draftService) channelHistory(ctx context.Context, from, to time.Time, limit int) ([]messaging.Message, error) {
	var messages []messaging.Message
	err := retry.Do(ctx, 3, messaging.IsRetryable, func() error {
		var histErr error
		messages, histErr = s.messenger.History(ctx, s.channel, from, to, limit)
		return histErr
	})
	if err != nil {
		return nil, fmt.Errorf("channel history: %w", err)
	}
	return messages, nil
}

func (s *draftService) saveComposedHighlight(ctx context.Context, issueID int64, composed string) error {
	highlight, err := s.highlights.GetByIssue(ctx, issueID)
	if err != nil {
		return fmt.Errorf("load highlight: %w", err)
	}
	highlight.Composed = &composed
	if err := s.highlights.Update(ctx, highlight); err != nil {
		return fmt.Errorf("save composed highlight: %w", err)
	}
	return nil
}

func joinMessages(messages []messaging.Message) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s\n", m.Timestamp.Format("Jan 2"), m.Text)
	}
	return b.String()
}

func knownQuestion(q string) bool {
	for _, known := range HighlightQuestions {
		if q == known {
			return true
		}
	}
	return false
}
