package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// PhotoService collects photo submissions and curates the gallery section.
type PhotoService interface {
	// Submit upserts one media item. Resubmitting the same file ref updates
	// the caption and engagement score rather than duplicating it.
	Submit(ctx context.Context, issueID, memberID int64, fileRef string, caption *string, engagement int) (*model.PhotoSubmission, error)
	// List returns the issue's submissions ranked by engagement.
	List(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error)
	// Curate marks exactly the given photos selected and rewrites the
	// gallery section from the selection.
	Curate(ctx context.Context, issueID int64, photoIDs []int64) error
}

type photoService struct {
	photos   store.PhotoStore
	sections store.SectionStore
}

func NewPhotoService(photos store.PhotoStore, sections store.SectionStore) PhotoService {
	return &photoService{photos: photos, sections: sections}
}

func (s *photoService) Submit(ctx context.Context, issueID, memberID int64, fileRef string, caption *string, engagement int) (*model.PhotoSubmission, error) {
	if strings.TrimSpace(fileRef) == "" {
		return nil, ErrEmptyContent
	}
	photo, err := s.photos.Upsert(ctx, &model.PhotoSubmission{
		IssueID:    issueID,
		MemberID:   memberID,
		FileRef:    fileRef,
		Caption:    caption,
		Engagement: engagement,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert photo: %w", err)
	}
	return photo, nil
}

func (s *photoService) List(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error) {
	return s.photos.ListByIssue(ctx, issueID)
}

func (s *photoService) Curate(ctx context.Context, issueID int64, photoIDs []int64) error {
	all, err := s.photos.ListByIssue(ctx, issueID)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}
	known := make(map[int64]*model.PhotoSubmission, len(all))
	for i := range all {
		known[all[i].ID] = &all[i]
	}
	var selected []*model.PhotoSubmission
	for _, pid := range photoIDs {
		photo, ok := known[pid]
		if !ok {
			return fmt.Errorf("photo %d: %w", pid, store.ErrNotFound)
		}
		selected = append(selected, photo)
	}

	if err := s.photos.SetSelected(ctx, issueID, photoIDs); err != nil {
		return fmt.Errorf("set selected photos: %w", err)
	}

	section, err := s.sections.GetOrCreate(ctx, issueID, model.SectionPhotoGallery)
	if err != nil {
		return fmt.Errorf("materialize gallery section: %w", err)
	}
	if section.Status.Locked() {
		return ErrSectionLocked
	}

	var b strings.Builder
	for _, photo := range selected {
		b.WriteString(photo.FileRef)
		if photo.Caption != nil && *photo.Caption != "" {
			b.WriteString(": " + *photo.Caption)
		}
		b.WriteString("\n")
	}

	now := time.Now().UTC()
	editor := "curation"
	section.Content = strings.TrimSpace(b.String())
	section.Status = model.SectionHumanEdited
	section.EditedBy = &editor
	section.EditedAt = &now
	if err := s.sections.Update(ctx, section); err != nil {
		return fmt.Errorf("update gallery section: %w", err)
	}
	return nil
}
