package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type qotmStore struct {
	q db.Querier
}

const qotmColumns = `id, issue_id, member_id, text, selected, submitted_at, updated_at`

func (s *qotmStore) Upsert(ctx context.Context, resp *model.QOTMResponse) (*model.QOTMResponse, error) {
	// Resubmission overwrites text in place and refreshes updated_at; the
	// selected flag and original submitted_at survive.
	row := s.q.QueryRow(ctx, `
		INSERT INTO qotm_responses (id, issue_id, member_id, text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (issue_id, member_id)
		DO UPDATE SET text = EXCLUDED.text, updated_at = now()
		RETURNING `+qotmColumns,
		id.New(), resp.IssueID, resp.MemberID, resp.Text)
	return scanQOTMResponse(row)
}

func (s *qotmStore) ListByIssue(ctx context.Context, issueID int64) ([]model.QOTMResponse, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+qotmColumns+` FROM qotm_responses WHERE issue_id = $1 ORDER BY submitted_at`,
		issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.QOTMResponse
	for rows.Next() {
		resp, err := scanQOTMResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, rows.Err()
}

func (s *qotmStore) SetSelected(ctx context.Context, issueID int64, ids []int64) error {
	_, err := s.q.Exec(ctx,
		`UPDATE qotm_responses SET selected = (id = ANY($2)), updated_at = now() WHERE issue_id = $1`,
		issueID, ids)
	return err
}

func scanQOTMResponse(row pgx.Row) (*model.QOTMResponse, error) {
	var resp model.QOTMResponse
	err := row.Scan(
		&resp.ID,
		&resp.IssueID,
		&resp.MemberID,
		&resp.Text,
		&resp.Selected,
		&resp.SubmittedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp, nil
}
