package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type sectionStore struct {
	q db.Querier
}

const sectionColumns = `id, issue_id, section_type, ordinal, content, ai_draft, status, edited_by, edited_at, message_channel, message_ts, created_at, updated_at`

func (s *sectionStore) GetOrCreate(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error) {
	if !sectionType.Valid() {
		return nil, fmt.Errorf("unknown section type %q", sectionType)
	}

	row := s.q.QueryRow(ctx, `
		INSERT INTO sections (id, issue_id, section_type, ordinal, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (issue_id, section_type) DO UPDATE SET section_type = EXCLUDED.section_type
		RETURNING `+sectionColumns,
		id.New(), issueID, sectionType, sectionType.Ordinal(), model.SectionAwaitingContent)
	return scanSection(row)
}

func (s *sectionStore) Get(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE issue_id = $1 AND section_type = $2`,
		issueID, sectionType)
	return scanSection(row)
}

func (s *sectionStore) ListByIssue(ctx context.Context, issueID int64) ([]model.Section, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE issue_id = $1 ORDER BY ordinal`,
		issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *section)
	}
	return sections, rows.Err()
}

func (s *sectionStore) Update(ctx context.Context, section *model.Section) error {
	var messageChannel, messageTS *string
	if section.Message != nil {
		messageChannel = &section.Message.Channel
		messageTS = &section.Message.Timestamp
	}

	tag, err := s.q.Exec(ctx, `
		UPDATE sections
		SET content = $2, ai_draft = $3, status = $4, edited_by = $5, edited_at = $6,
		    message_channel = $7, message_ts = $8, updated_at = now()
		WHERE id = $1`,
		section.ID, section.Content, section.AIDraft, section.Status,
		section.EditedBy, section.EditedAt, messageChannel, messageTS)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSection(row pgx.Row) (*model.Section, error) {
	var (
		section        model.Section
		sectionType    string
		status         string
		messageChannel *string
		messageTS      *string
	)
	err := row.Scan(
		&section.ID,
		&section.IssueID,
		&sectionType,
		&section.Ordinal,
		&section.Content,
		&section.AIDraft,
		&status,
		&section.EditedBy,
		&section.EditedAt,
		&messageChannel,
		&messageTS,
		&section.CreatedAt,
		&section.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	section.Type = model.SectionType(sectionType)
	section.Status = model.SectionStatus(status)
	if messageChannel != nil && messageTS != nil {
		section.Message = &model.MessageRef{Channel: *messageChannel, Timestamp: *messageTS}
	}
	return &section, nil
}
