package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
)

var _ = Describe("HostService", func() {
	var (
		ctx          context.Context
		hostStore    *mockHostStore
		memberStore  *mockMemberStore
		sectionStore *mockSectionStore
		messenger    *mockMessenger

		dmsSent []string
		posts   []string
		spot    *model.HostSpot
	)

	const issueID = int64(100)

	newService := func(autoReselect bool) service.HostService {
		return service.NewHostService(hostStore, memberStore, sectionStore, messenger, "#pinecrest", autoReselect)
	}

	BeforeEach(func() {
		ctx = context.Background()
		dmsSent = nil
		posts = nil
		spot = nil

		hostStore = &mockHostStore{
			GetByIssueFunc: notFound[model.HostSpot],
			CreateFunc: func(_ context.Context, s *model.HostSpot) error {
				spot = s
				return nil
			},
			UpdateFunc:        func(context.Context, *model.HostSpot) error { return nil },
			ListSubmittedFunc: func(context.Context) ([]model.HostSpot, error) { return nil, nil },
		}
		memberStore = &mockMemberStore{
			GetByIDFunc: func(_ context.Context, id int64) (*model.Member, error) {
				return &model.Member{ID: id, SlackUserID: "U007"}, nil
			},
			ListActiveByRoleFunc: func(_ context.Context, role model.Role) ([]model.Member, error) {
				Expect(role).To(Equal(model.RoleHost))
				return []model.Member{
					{ID: 1, SlackUserID: "U001", Active: true},
					{ID: 2, SlackUserID: "U002", Active: true},
				}, nil
			},
		}
		sectionStore = &mockSectionStore{}
		messenger = &mockMessenger{
			SendDMFunc: func(_ context.Context, userID, _ string) (model.MessageRef, error) {
				dmsSent = append(dmsSent, userID)
				return model.MessageRef{Channel: "D1", Timestamp: "1.0"}, nil
			},
			PostChannelFunc: func(_ context.Context, _, text string) (model.MessageRef, error) {
				posts = append(posts, text)
				return model.MessageRef{Channel: "C1", Timestamp: "2.0"}, nil
			},
		}
	})

	Describe("Assign", func() {
		It("assigns a member host", func() {
			memberID := int64(1)
			got, err := newService(false).Assign(ctx, issueID, &memberID, nil, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.MemberID).To(Equal(int64(1)))
			Expect(got.Status).To(Equal(model.ContributionAssigned))
			Expect(spot).To(Equal(got), "the created spot is persisted as returned")
		})

		It("assigns an external guest without a platform account", func() {
			guest := "Aunt Carol"
			got, err := newService(false).Assign(ctx, issueID, nil, &guest, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.MemberID).To(BeNil())
			Expect(*got.GuestName).To(Equal("Aunt Carol"))
			Expect(spot.IssueID).To(Equal(issueID))
		})

		It("requires exactly one of member and guest", func() {
			_, err := newService(false).Assign(ctx, issueID, nil, nil, false)
			Expect(err).To(HaveOccurred())

			memberID, guest := int64(1), "Carol"
			_, err = newService(false).Assign(ctx, issueID, &memberID, &guest, false)
			Expect(err).To(HaveOccurred())
		})

		It("fails on double assignment without reassign", func() {
			memberID := int64(1)
			hostStore.GetByIssueFunc = func(context.Context, int64) (*model.HostSpot, error) {
				return &model.HostSpot{ID: 4, IssueID: issueID, MemberID: &memberID}, nil
			}

			_, err := newService(false).Assign(ctx, issueID, &memberID, nil, false)
			Expect(err).To(MatchError(service.ErrAlreadyAssigned))
		})
	})

	Describe("Submit", func() {
		var written map[model.SectionType]string

		BeforeEach(func() {
			written = make(map[model.SectionType]string)
			memberID := int64(1)
			hostStore.GetByIssueFunc = func(context.Context, int64) (*model.HostSpot, error) {
				return &model.HostSpot{ID: 4, IssueID: issueID, MemberID: &memberID, Status: model.ContributionAssigned}, nil
			}
			sectionStore.GetOrCreateFunc = func(_ context.Context, _ int64, t model.SectionType) (*model.Section, error) {
				return &model.Section{ID: int64(t.Ordinal()), IssueID: issueID, Type: t, Status: model.SectionAwaitingContent}, nil
			}
			sectionStore.UpdateFunc = func(_ context.Context, s *model.Section) error {
				written[s.Type] = s.Content
				return nil
			}
		})

		It("writes the opener and closer sections", func() {
			got, err := newService(false).Submit(ctx, issueID, "Welcome all!", "See you out there.")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.ContributionSubmitted))
			Expect(got.SubmittedAt).NotTo(BeNil())
			Expect(written[model.SectionOpener]).To(Equal("Welcome all!"))
			Expect(written[model.SectionCloser]).To(Equal("See you out there."))
		})

		It("rejects a missing half", func() {
			_, err := newService(false).Submit(ctx, issueID, "Welcome!", " ")
			Expect(err).To(MatchError(service.ErrEmptyContent))
		})
	})

	Describe("Decline", func() {
		BeforeEach(func() {
			memberID := int64(1)
			hostStore.GetByIssueFunc = func(context.Context, int64) (*model.HostSpot, error) {
				return &model.HostSpot{ID: 4, IssueID: issueID, MemberID: &memberID, Status: model.ContributionAssigned}, nil
			}
		})

		It("surfaces to the admin for manual reassignment by default", func() {
			got, err := newService(false).Decline(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.ContributionDeclined))
			Expect(posts).To(HaveLen(1))
			Expect(posts[0]).To(ContainSubstring("declined"))
			Expect(dmsSent).To(BeEmpty())
		})

		It("reselects automatically when the policy flag is on, excluding the decliner", func() {
			got, err := newService(true).Decline(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.MemberID).To(Equal(int64(2)))
			Expect(got.Status).To(Equal(model.ContributionAssigned))
			Expect(dmsSent).To(HaveLen(1), "the replacement is notified")
		})
	})

	Describe("Remind", func() {
		It("skips a submitted host", func() {
			memberID := int64(1)
			now := time.Now()
			hostStore.GetByIssueFunc = func(context.Context, int64) (*model.HostSpot, error) {
				return &model.HostSpot{ID: 4, IssueID: issueID, MemberID: &memberID,
					Status: model.ContributionSubmitted, SubmittedAt: &now}, nil
			}

			result, err := newService(false).Remind(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSkipped))
			Expect(dmsSent).To(BeEmpty())
		})

		It("skips a guest host who has no platform identity", func() {
			guest := "Aunt Carol"
			hostStore.GetByIssueFunc = func(context.Context, int64) (*model.HostSpot, error) {
				return &model.HostSpot{ID: 4, IssueID: issueID, GuestName: &guest, Status: model.ContributionAssigned}, nil
			}

			result, err := newService(false).Remind(ctx, issueID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(service.ReminderSkipped))
		})

		It("reports ErrNotAssigned without a host spot", func() {
			_, err := newService(false).Remind(ctx, issueID)
			Expect(err).To(MatchError(service.ErrNotAssigned))
		})
	})
})
