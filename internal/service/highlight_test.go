package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
)

var _ = Describe("HighlightService", func() {
	var (
		ctx        context.Context
		hlStore    *mockHighlightStore
		members    *mockMemberStore
		messenger  *mockMessenger
		highlights service.HighlightService

		dms   []string
		posts []string
	)

	const issueID = int64(100)

	BeforeEach(func() {
		ctx = context.Background()
		dms = nil
		posts = nil

		hlStore = &mockHighlightStore{
			GetByIssueFunc: notFound[model.MemberHighlight],
			CreateFunc:     func(context.Context, *model.MemberHighlight) error { return nil },
			UpdateFunc:     func(context.Context, *model.MemberHighlight) error { return nil },
		}
		members = &mockMemberStore{
			GetByIDFunc: func(_ context.Context, id int64) (*model.Member, error) {
				return &model.Member{ID: id, SlackUserID: "U042"}, nil
			},
		}
		messenger = &mockMessenger{
			SendDMFunc: func(_ context.Context, userID, text string) (model.MessageRef, error) {
				dms = append(dms, text)
				return model.MessageRef{Channel: "D1", Timestamp: "1.0"}, nil
			},
			PostChannelFunc: func(_ context.Context, _, text string) (model.MessageRef, error) {
				posts = append(posts, text)
				return model.MessageRef{Channel: "C1", Timestamp: "2.0"}, nil
			},
		}
		highlights = service.NewHighlightService(hlStore, members, messenger, "#pinecrest")
	})

	Describe("Nominate", func() {
		It("creates the nomination", func() {
			nominator := int64(3)
			got, err := highlights.Nominate(ctx, issueID, 7, &nominator, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.MemberID).To(Equal(int64(7)))
			Expect(got.Status).To(Equal(model.ContributionNominated))
			Expect(*got.NominatedBy).To(Equal(int64(3)))
		})

		It("fails on a second nomination without reassign", func() {
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{ID: 1, IssueID: issueID, MemberID: 7}, nil
			}

			_, err := highlights.Nominate(ctx, issueID, 8, nil, false)
			Expect(err).To(MatchError(service.ErrAlreadyAssigned))
		})

		It("renomination clears prior answers and prose", func() {
			composed := "old prose"
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{
					ID: 1, IssueID: issueID, MemberID: 7,
					Status:   model.ContributionSubmitted,
					Answers:  map[string]string{"q": "a"},
					Composed: &composed,
				}, nil
			}

			got, err := highlights.Nominate(ctx, issueID, 8, nil, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.MemberID).To(Equal(int64(8)))
			Expect(got.Status).To(Equal(model.ContributionNominated))
			Expect(got.Answers).To(BeNil())
			Expect(got.Composed).To(BeNil())
		})
	})

	Describe("Request", func() {
		It("skips cleanly when no nomination exists", func() {
			result, err := highlights.Request(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSkipped))
			Expect(dms).To(BeEmpty())
		})

		It("DMs the nominee with the questionnaire", func() {
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{ID: 1, IssueID: issueID, MemberID: 7, Status: model.ContributionNominated}, nil
			}

			result, err := highlights.Request(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSent))
			Expect(dms).To(HaveLen(1))
			for _, q := range service.HighlightQuestions {
				Expect(dms[0]).To(ContainSubstring(q))
			}
		})

		It("skips when answers are already in", func() {
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{ID: 1, IssueID: issueID, MemberID: 7, Status: model.ContributionSubmitted}, nil
			}

			result, err := highlights.Request(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSkipped))
		})
	})

	Describe("SubmitAnswers", func() {
		BeforeEach(func() {
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{ID: 1, IssueID: issueID, MemberID: 7, Status: model.ContributionNominated}, nil
			}
		})

		It("stores the answer map and marks submitted", func() {
			answers := map[string]string{service.HighlightQuestions[0]: "Three years."}
			got, err := highlights.SubmitAnswers(ctx, issueID, 7, answers)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.ContributionSubmitted))
			Expect(got.Answers).To(Equal(answers))
			Expect(got.SubmittedAt).NotTo(BeNil())
		})

		It("rejects answers from someone other than the nominee", func() {
			_, err := highlights.SubmitAnswers(ctx, issueID, 8, map[string]string{"q": "a"})
			Expect(err).To(MatchError(service.ErrNotAssignee))
		})

		It("rejects an empty answer map", func() {
			_, err := highlights.SubmitAnswers(ctx, issueID, 7, nil)
			Expect(err).To(MatchError(service.ErrEmptyContent))
		})
	})

	Describe("Decline", func() {
		It("marks declined and asks the admin for a new nominee", func() {
			hlStore.GetByIssueFunc = func(context.Context, int64) (*model.MemberHighlight, error) {
				return &model.MemberHighlight{ID: 1, IssueID: issueID, MemberID: 7, Status: model.ContributionNominated}, nil
			}

			got, err := highlights.Decline(ctx, issueID, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.ContributionDeclined))
			Expect(posts).To(HaveLen(1), "surfaced for manual reassignment, never auto-retried")
		})
	})
})
