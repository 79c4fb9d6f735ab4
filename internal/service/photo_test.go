package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

var _ = Describe("PhotoService", func() {
	var (
		ctx        context.Context
		photoStore *mockPhotoStore
		secStore   *mockSectionStore
		photos     service.PhotoService
	)

	const issueID = int64(100)

	BeforeEach(func() {
		ctx = context.Background()
		photoStore = &mockPhotoStore{}
		secStore = &mockSectionStore{}
		photos = service.NewPhotoService(photoStore, secStore)
	})

	Describe("Submit", func() {
		// Emulates the store's ON CONFLICT upsert keyed by (issue, file ref).
		var rows map[string]*model.PhotoSubmission

		BeforeEach(func() {
			rows = make(map[string]*model.PhotoSubmission)
			photoStore.UpsertFunc = func(_ context.Context, p *model.PhotoSubmission) (*model.PhotoSubmission, error) {
				if existing, ok := rows[p.FileRef]; ok {
					existing.Caption = p.Caption
					existing.Engagement = p.Engagement
					return existing, nil
				}
				p.ID = int64(len(rows) + 1)
				rows[p.FileRef] = p
				return p, nil
			}
		})

		It("resubmitting the same file updates rather than duplicates", func() {
			caption := "sunrise"
			_, err := photos.Submit(ctx, issueID, 7, "F123", &caption, 2)
			Expect(err).NotTo(HaveOccurred())

			better := "sunrise over the ridge"
			got, err := photos.Submit(ctx, issueID, 7, "F123", &better, 9)
			Expect(err).NotTo(HaveOccurred())

			Expect(rows).To(HaveLen(1))
			Expect(*got.Caption).To(Equal("sunrise over the ridge"))
			Expect(got.Engagement).To(Equal(9))
		})

		It("rejects an empty file ref", func() {
			_, err := photos.Submit(ctx, issueID, 7, " ", nil, 0)
			Expect(err).To(MatchError(service.ErrEmptyContent))
		})
	})

	Describe("Curate", func() {
		var section *model.Section

		BeforeEach(func() {
			caption := "trail day"
			photoStore.ListByIssueFunc = func(context.Context, int64) ([]model.PhotoSubmission, error) {
				return []model.PhotoSubmission{
					{ID: 1, IssueID: issueID, FileRef: "F1", Caption: &caption, Engagement: 10},
					{ID: 2, IssueID: issueID, FileRef: "F2", Engagement: 3},
				}, nil
			}
			photoStore.SetSelectedFunc = func(context.Context, int64, []int64) error { return nil }
			section = &model.Section{ID: 9, IssueID: issueID, Type: model.SectionPhotoGallery, Status: model.SectionAwaitingContent}
			secStore.GetOrCreateFunc = func(context.Context, int64, model.SectionType) (*model.Section, error) {
				return section, nil
			}
			secStore.UpdateFunc = func(context.Context, *model.Section) error { return nil }
		})

		It("writes the gallery from the selection only", func() {
			Expect(photos.Curate(ctx, issueID, []int64{1})).To(Succeed())
			Expect(section.Content).To(ContainSubstring("F1"))
			Expect(section.Content).To(ContainSubstring("trail day"))
			Expect(section.Content).NotTo(ContainSubstring("F2"))
		})

		It("rejects an unknown photo ID", func() {
			err := photos.Curate(ctx, issueID, []int64{42})
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})
})
