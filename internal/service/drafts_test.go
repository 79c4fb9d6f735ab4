package service_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

var _ = Describe("DraftService", func() {
	var (
		ctx          context.Context
		sectionStore *mockSectionStore
		eventStore   *mockEventStore
		hlStore      *mockHighlightStore
		messenger    *mockMessenger
		generator    *mockGenerator
		drafts       service.DraftService

		issue    *model.Issue
		sections map[model.SectionType]*model.Section
		saved    map[model.SectionType]*model.Section
	)

	BeforeEach(func() {
		ctx = context.Background()
		issue = &model.Issue{
			ID:          100,
			Period:      "2026-01",
			PeriodStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			PublishOn:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		sections = make(map[model.SectionType]*model.Section)
		saved = make(map[model.SectionType]*model.Section)

		sectionStore = &mockSectionStore{
			GetOrCreateFunc: func(_ context.Context, issueID int64, t model.SectionType) (*model.Section, error) {
				if s, ok := sections[t]; ok {
					return s, nil
				}
				s := &model.Section{ID: int64(t.Ordinal()), IssueID: issueID, Type: t, Status: model.SectionAwaitingContent}
				sections[t] = s
				return s, nil
			},
			UpdateFunc: func(_ context.Context, s *model.Section) error {
				saved[s.Type] = s
				return nil
			},
		}
		eventStore = &mockEventStore{
			ListBetweenFunc: func(context.Context, time.Time, time.Time) ([]model.Event, error) {
				return []model.Event{{ID: 1, Title: "Winter social", StartsAt: time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC)}}, nil
			},
		}
		hlStore = &mockHighlightStore{
			GetByIssueFunc: notFound[model.MemberHighlight],
		}
		messenger = &mockMessenger{
			HistoryFunc: func(_ context.Context, _ string, _, _ time.Time, _ int) ([]messaging.Message, error) {
				return []messaging.Message{
					{AuthorID: "U001", Text: "Trail day went great!", Timestamp: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)},
				}, nil
			},
		}
		generator = &mockGenerator{
			GenerateFunc: func(_ context.Context, _ llm.Request) (string, error) {
				return "A fine month it was.", nil
			},
		}

		drafts = service.NewDraftService(sectionStore, eventStore, hlStore, messenger, generator, "#pinecrest", 1200)
	})

	Describe("Generate", func() {
		It("persists the draft as both content and ai_draft", func() {
			note, err := drafts.Generate(ctx, issue, model.SectionMonthInReview)
			Expect(err).NotTo(HaveOccurred())
			Expect(note).To(Equal("draft generated"))

			got := saved[model.SectionMonthInReview]
			Expect(got).NotTo(BeNil())
			Expect(got.Content).To(Equal("A fine month it was."))
			Expect(*got.AIDraft).To(Equal(got.Content))
			Expect(got.Status).To(Equal(model.SectionHasAIDraft))
		})

		It("truncates an oversized generation to the ceiling with an ellipsis", func() {
			generator.GenerateFunc = func(context.Context, llm.Request) (string, error) {
				return strings.Repeat("a", 3500), nil
			}

			_, err := drafts.Generate(ctx, issue, model.SectionMonthInReview)
			Expect(err).NotTo(HaveOccurred())

			got := saved[model.SectionMonthInReview]
			Expect([]rune(got.Content)).To(HaveLen(service.CharCeiling))
			Expect(got.Content).To(HaveSuffix("..."))
		})

		It("leaves a generation at exactly the ceiling untouched", func() {
			exact := strings.Repeat("b", service.CharCeiling)
			generator.GenerateFunc = func(context.Context, llm.Request) (string, error) {
				return exact, nil
			}

			_, err := drafts.Generate(ctx, issue, model.SectionMonthInReview)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved[model.SectionMonthInReview].Content).To(Equal(exact))
		})

		It("never demotes a human-edited section back to a draft", func() {
			sections[model.SectionMonthInReview] = &model.Section{
				ID: 6, IssueID: 100, Type: model.SectionMonthInReview,
				Status: model.SectionHumanEdited, Content: "human words",
			}
			generator.GenerateFunc = func(context.Context, llm.Request) (string, error) {
				Fail("generator must not be called")
				return "", nil
			}

			note, err := drafts.Generate(ctx, issue, model.SectionMonthInReview)
			Expect(err).NotTo(HaveOccurred())
			Expect(note).To(Equal("skipped, already edited"))
			Expect(saved).To(BeEmpty())
		})

		It("composes the member highlight from submitted answers", func() {
			now := time.Now()
			highlight := &model.MemberHighlight{
				ID: 3, IssueID: 100, MemberID: 7,
				Status:      model.ContributionSubmitted,
				SubmittedAt: &now,
				Answers:     map[string]string{service.HighlightQuestions[0]: "Five great years."},
			}
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return highlight, nil
			}
			hlStore.UpdateFunc = func(context.Context, *model.MemberHighlight) error { return nil }
			generator.GenerateFunc = func(_ context.Context, req llm.Request) (string, error) {
				Expect(req.UserPrompt).To(ContainSubstring("Five great years."))
				return "Meet our member of the month.", nil
			}

			_, err := drafts.Generate(ctx, issue, model.SectionMemberHighlight)
			Expect(err).NotTo(HaveOccurred())
			Expect(*highlight.Composed).To(Equal("Meet our member of the month."))
			Expect(saved[model.SectionMemberHighlight].Content).To(Equal("Meet our member of the month."))
		})

		It("orders extra interview questions deterministically", func() {
			now := time.Now()
			highlight := &model.MemberHighlight{
				ID: 3, IssueID: 100, MemberID: 7,
				Status:      model.ContributionSubmitted,
				SubmittedAt: &now,
				Answers: map[string]string{
					"Favorite trail?":  "The north ridge.",
					"Best club snack?": "Trail mix, obviously.",
					"A hidden talent?": "Juggling.",
				},
			}
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return highlight, nil
			}
			hlStore.UpdateFunc = func(context.Context, *model.MemberHighlight) error { return nil }

			var prompts []string
			generator.GenerateFunc = func(_ context.Context, req llm.Request) (string, error) {
				prompts = append(prompts, req.UserPrompt)
				return "Meet our member of the month.", nil
			}

			for i := 0; i < 3; i++ {
				delete(sections, model.SectionMemberHighlight)
				_, err := drafts.Generate(ctx, issue, model.SectionMemberHighlight)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(prompts).To(HaveLen(3))
			Expect(prompts[1]).To(Equal(prompts[0]))
			Expect(prompts[2]).To(Equal(prompts[0]))

			hidden := strings.Index(prompts[0], "A hidden talent?")
			snack := strings.Index(prompts[0], "Best club snack?")
			trail := strings.Index(prompts[0], "Favorite trail?")
			Expect(hidden).To(BeNumerically("<", snack))
			Expect(snack).To(BeNumerically("<", trail))
		})

		It("skips the highlight when answers are not in yet", func() {
			note, err := drafts.Generate(ctx, issue, model.SectionMemberHighlight)
			Expect(err).NotTo(HaveOccurred())
			Expect(note).To(Equal("skipped, no highlight on file"))
		})

		It("rejects a human-only section type", func() {
			_, err := drafts.Generate(ctx, issue, model.SectionOpener)
			Expect(err).To(MatchError(service.ErrInvalidSectionType))
		})
	})

	Describe("GenerateAll", func() {
		It("records one section's failure without blocking the others", func() {
			generator.GenerateFunc = func(_ context.Context, req llm.Request) (string, error) {
				if strings.Contains(req.UserPrompt, "month in review") {
					return "", fmt.Errorf("quota exhausted: %w", context.Canceled)
				}
				return "Generated prose.", nil
			}

			actions, errs := drafts.GenerateAll(ctx, issue)
			Expect(errs).To(HaveLen(1))
			Expect(errs[0].Error()).To(ContainSubstring("month_in_review"))

			Expect(actions).To(ContainElement(ContainSubstring("heads_up: draft generated")))
			Expect(actions).To(ContainElement(ContainSubstring("events: draft generated")))
			Expect(actions).To(ContainElement(ContainSubstring("leadership_recap: draft generated")))
			Expect(actions).To(ContainElement(ContainSubstring("member_highlight: skipped")))
		})

		It("covers every AI-assisted type and no other", func() {
			actions, errs := drafts.GenerateAll(ctx, issue)
			Expect(errs).To(BeEmpty())
			Expect(actions).To(HaveLen(5))
			for t := range saved {
				Expect(t.AIAssisted()).To(BeTrue())
			}
		})
	})
})

var _ = Describe("draft store errors", func() {
	It("not-found from the section store surfaces as an error entry", func() {
		sectionStore := &mockSectionStore{
			GetOrCreateFunc: func(context.Context, int64, model.SectionType) (*model.Section, error) {
				return nil, store.ErrNotFound
			},
		}
		drafts := service.NewDraftService(sectionStore, &mockEventStore{}, &mockHighlightStore{}, &mockMessenger{}, &mockGenerator{}, "#pinecrest", 1200)

		issue := &model.Issue{ID: 100, Period: "2026-01"}
		_, errs := drafts.GenerateAll(context.Background(), issue)
		Expect(len(errs)).To(Equal(5))
	})
})
