package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinecrest.club/gazette/common/text"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// EditorService applies human edits to sections and enforces the status
// state machine. Edits are always a full-content replace: the last write
// wins, and the editor identity is recorded so conflicts stay attributable.
type EditorService interface {
	// Open returns the section for editing, materializing it lazily when it
	// does not exist yet. The returned content is truncated to the platform
	// ceiling so it fits the edit surface.
	Open(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error)
	Edit(ctx context.Context, issueID int64, sectionType model.SectionType, editor, content string) (*model.Section, error)
	// Lock moves the section to final. Any state may be locked; a locked
	// section accepts no further edits.
	Lock(ctx context.Context, issueID int64, sectionType model.SectionType, editor string) (*model.Section, error)
}

type editorService struct {
	sections store.SectionStore
}

func NewEditorService(sections store.SectionStore) EditorService {
	return &editorService{sections: sections}
}

func (s *editorService) Open(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error) {
	if !sectionType.Valid() {
		return nil, ErrInvalidSectionType
	}
	section, err := s.sections.GetOrCreate(ctx, issueID, sectionType)
	if err != nil {
		return nil, fmt.Errorf("materialize section %s: %w", sectionType, err)
	}
	section.Content = text.Truncate(section.Content, CharCeiling)
	return section, nil
}

func (s *editorService) Edit(ctx context.Context, issueID int64, sectionType model.SectionType, editor, content string) (*model.Section, error) {
	if !sectionType.Valid() {
		return nil, ErrInvalidSectionType
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	section, err := s.sections.GetOrCreate(ctx, issueID, sectionType)
	if err != nil {
		return nil, fmt.Errorf("materialize section %s: %w", sectionType, err)
	}
	if section.Status.Locked() {
		return nil, ErrSectionLocked
	}
	if !section.Status.CanTransition(model.SectionHumanEdited) {
		return nil, ErrSectionLocked
	}

	now := time.Now().UTC()
	section.Content = content
	section.Status = model.SectionHumanEdited
	section.EditedBy = &editor
	section.EditedAt = &now

	if err := s.sections.Update(ctx, section); err != nil {
		return nil, fmt.Errorf("update section %s: %w", sectionType, err)
	}
	return section, nil
}

func (s *editorService) Lock(ctx context.Context, issueID int64, sectionType model.SectionType, editor string) (*model.Section, error) {
	if !sectionType.Valid() {
		return nil, ErrInvalidSectionType
	}
	section, err := s.sections.GetOrCreate(ctx, issueID, sectionType)
	if err != nil {
		return nil, fmt.Errorf("materialize section %s: %w", sectionType, err)
	}
	if section.Status == model.SectionFinal {
		return section, nil
	}

	now := time.Now().UTC()
	section.Status = model.SectionFinal
	section.EditedBy = &editor
	section.EditedAt = &now

	if err := s.sections.Update(ctx, section); err != nil {
		return nil, fmt.Errorf("lock section %s: %w", sectionType, err)
	}
	return section, nil
}
