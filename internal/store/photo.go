package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type photoStore struct {
	q db.Querier
}

const photoColumns = `id, issue_id, member_id, file_ref, caption, engagement, selected, submitted_at, updated_at`

func (s *photoStore) Upsert(ctx context.Context, photo *model.PhotoSubmission) (*model.PhotoSubmission, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO photo_submissions (id, issue_id, member_id, file_ref, caption, engagement)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (issue_id, file_ref)
		DO UPDATE SET caption = EXCLUDED.caption, engagement = EXCLUDED.engagement, updated_at = now()
		RETURNING `+photoColumns,
		id.New(), photo.IssueID, photo.MemberID, photo.FileRef, photo.Caption, photo.Engagement)
	return scanPhoto(row)
}

func (s *photoStore) ListByIssue(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+photoColumns+` FROM photo_submissions WHERE issue_id = $1 ORDER BY engagement DESC, submitted_at`,
		issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []model.PhotoSubmission
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}

func (s *photoStore) SetSelected(ctx context.Context, issueID int64, ids []int64) error {
	_, err := s.q.Exec(ctx,
		`UPDATE photo_submissions SET selected = (id = ANY($2)), updated_at = now() WHERE issue_id = $1`,
		issueID, ids)
	return err
}

func scanPhoto(row pgx.Row) (*model.PhotoSubmission, error) {
	var photo model.PhotoSubmission
	err := row.Scan(
		&photo.ID,
		&photo.IssueID,
		&photo.MemberID,
		&photo.FileRef,
		&photo.Caption,
		&photo.Engagement,
		&photo.Selected,
		&photo.SubmittedAt,
		&photo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}
