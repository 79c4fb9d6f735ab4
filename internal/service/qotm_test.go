package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

var _ = Describe("QOTMService", func() {
	var (
		ctx        context.Context
		issueStore *mockIssueStore
		qotmStore  *mockQOTMStore
		secStore   *mockSectionStore
		messenger  *mockMessenger
		qotm       service.QOTMService

		posts []string
	)

	const issueID = int64(100)

	BeforeEach(func() {
		ctx = context.Background()
		posts = nil

		issueStore = &mockIssueStore{}
		qotmStore = &mockQOTMStore{}
		secStore = &mockSectionStore{}
		messenger = &mockMessenger{
			PostChannelFunc: func(_ context.Context, _, text string) (model.MessageRef, error) {
				posts = append(posts, text)
				return model.MessageRef{Channel: "C1", Timestamp: "1.0"}, nil
			},
		}
		qotm = service.NewQOTMService(issueStore, qotmStore, secStore, messenger, "#pinecrest")
	})

	Describe("PostPrompt", func() {
		It("posts a channel-visible prompt", func() {
			prompt := "What was your best ride?"
			result, err := qotm.PostPrompt(ctx, &model.Issue{ID: issueID, QOTMPrompt: &prompt})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSent))
			Expect(posts).To(HaveLen(1))
			Expect(posts[0]).To(ContainSubstring(prompt))
		})

		It("skips when no prompt is set", func() {
			result, err := qotm.PostPrompt(ctx, &model.Issue{ID: issueID})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSkipped))
			Expect(posts).To(BeEmpty())
		})
	})

	Describe("SubmitResponse", func() {
		// Emulates the store's ON CONFLICT upsert keyed by (issue, member).
		var rows map[int64]*model.QOTMResponse

		BeforeEach(func() {
			rows = make(map[int64]*model.QOTMResponse)
			qotmStore.UpsertFunc = func(_ context.Context, resp *model.QOTMResponse) (*model.QOTMResponse, error) {
				if existing, ok := rows[resp.MemberID]; ok {
					existing.Text = resp.Text
					existing.UpdatedAt = time.Now()
					return existing, nil
				}
				resp.ID = int64(len(rows) + 1)
				rows[resp.MemberID] = resp
				return resp, nil
			}
		})

		It("resubmission leaves exactly one row with the latest text", func() {
			first, err := qotm.SubmitResponse(ctx, issueID, 7, "Great day!")
			Expect(err).NotTo(HaveOccurred())

			second, err := qotm.SubmitResponse(ctx, issueID, 7, "Even better day!")
			Expect(err).NotTo(HaveOccurred())

			Expect(rows).To(HaveLen(1))
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Text).To(Equal("Even better day!"))
		})

		It("distinct members get distinct rows", func() {
			_, err := qotm.SubmitResponse(ctx, issueID, 7, "Great day!")
			Expect(err).NotTo(HaveOccurred())
			_, err = qotm.SubmitResponse(ctx, issueID, 8, "Rainy but fun.")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("rejects a blank response", func() {
			_, err := qotm.SubmitResponse(ctx, issueID, 7, " ")
			Expect(err).To(MatchError(service.ErrEmptyContent))
		})
	})

	Describe("Curate", func() {
		var (
			selectedIDs []int64
			section     *model.Section
		)

		BeforeEach(func() {
			prompt := "Best ride?"
			issueStore.GetByIDFunc = func(context.Context, int64) (*model.Issue, error) {
				return &model.Issue{ID: issueID, QOTMPrompt: &prompt}, nil
			}
			qotmStore.ListByIssueFunc = func(context.Context, int64) ([]model.QOTMResponse, error) {
				return []model.QOTMResponse{
					{ID: 1, IssueID: issueID, MemberID: 7, Text: "The dawn patrol."},
					{ID: 2, IssueID: issueID, MemberID: 8, Text: "Any with friends."},
				}, nil
			}
			qotmStore.SetSelectedFunc = func(_ context.Context, _ int64, ids []int64) error {
				selectedIDs = ids
				return nil
			}
			section = &model.Section{ID: 2, IssueID: issueID, Type: model.SectionQuestionOfMonth, Status: model.SectionAwaitingContent}
			secStore.GetOrCreateFunc = func(context.Context, int64, model.SectionType) (*model.Section, error) {
				return section, nil
			}
			secStore.UpdateFunc = func(context.Context, *model.Section) error { return nil }
		})

		It("marks the selection and rewrites the section", func() {
			Expect(qotm.Curate(ctx, issueID, []int64{1})).To(Succeed())
			Expect(selectedIDs).To(Equal([]int64{1}))
			Expect(section.Content).To(ContainSubstring("The dawn patrol."))
			Expect(section.Content).NotTo(ContainSubstring("Any with friends."))
			Expect(section.Content).To(ContainSubstring("Best ride?"))
		})

		It("rejects an ID from another issue", func() {
			err := qotm.Curate(ctx, issueID, []int64{99})
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("refuses to rewrite a locked section", func() {
			section.Status = model.SectionFinal
			err := qotm.Curate(ctx, issueID, []int64{1})
			Expect(err).To(MatchError(service.ErrSectionLocked))
		})
	})
})
