package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type rotationStore struct {
	q db.Querier
}

const rotationColumns = `id, issue_id, member_id, status, body, submitted_at, created_at, updated_at`

func (s *rotationStore) GetByIssue(ctx context.Context, issueID int64) (*model.CoachRotation, error) {
	row := s.q.QueryRow(ctx, `SELECT `+rotationColumns+` FROM coach_rotations WHERE issue_id = $1`, issueID)
	return scanRotation(row)
}

func (s *rotationStore) Create(ctx context.Context, rotation *model.CoachRotation) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO coach_rotations (id, issue_id, member_id, status)
		VALUES ($1, $2, $3, $4)`,
		rotation.ID, rotation.IssueID, rotation.MemberID, rotation.Status)
	return mapUniqueViolation(err)
}

func (s *rotationStore) Update(ctx context.Context, rotation *model.CoachRotation) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE coach_rotations
		SET member_id = $2, status = $3, body = $4, submitted_at = $5, updated_at = now()
		WHERE id = $1`,
		rotation.ID, rotation.MemberID, rotation.Status, rotation.Body, rotation.SubmittedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *rotationStore) DeleteByIssue(ctx context.Context, issueID int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM coach_rotations WHERE issue_id = $1`, issueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *rotationStore) ListSubmitted(ctx context.Context) ([]model.CoachRotation, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+rotationColumns+` FROM coach_rotations WHERE status = $1 ORDER BY submitted_at`,
		model.ContributionSubmitted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rotations []model.CoachRotation
	for rows.Next() {
		rotation, err := scanRotation(rows)
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, *rotation)
	}
	return rotations, rows.Err()
}

func scanRotation(row pgx.Row) (*model.CoachRotation, error) {
	var (
		rotation model.CoachRotation
		status   string
	)
	err := row.Scan(
		&rotation.ID,
		&rotation.IssueID,
		&rotation.MemberID,
		&status,
		&rotation.Body,
		&rotation.SubmittedAt,
		&rotation.CreatedAt,
		&rotation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rotation.Status = model.ContributionStatus(status)
	return &rotation, nil
}
