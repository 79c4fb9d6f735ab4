package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type highlightStore struct {
	q db.Querier
}

const highlightColumns = `id, issue_id, member_id, nominated_by, status, answers, composed, final_text, submitted_at, created_at, updated_at`

func (s *highlightStore) GetByIssue(ctx context.Context, issueID int64) (*model.MemberHighlight, error) {
	row := s.q.QueryRow(ctx, `SELECT `+highlightColumns+` FROM member_highlights WHERE issue_id = $1`, issueID)
	return scanHighlight(row)
}

func (s *highlightStore) Create(ctx context.Context, highlight *model.MemberHighlight) error {
	answers, err := marshalAnswers(highlight.Answers)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO member_highlights (id, issue_id, member_id, nominated_by, status, answers)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		highlight.ID, highlight.IssueID, highlight.MemberID, highlight.NominatedBy, highlight.Status, answers)
	return mapUniqueViolation(err)
}

func (s *highlightStore) Update(ctx context.Context, highlight *model.MemberHighlight) error {
	answers, err := marshalAnswers(highlight.Answers)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE member_highlights
		SET member_id = $2, nominated_by = $3, status = $4, answers = $5,
		    composed = $6, final_text = $7, submitted_at = $8, updated_at = now()
		WHERE id = $1`,
		highlight.ID, highlight.MemberID, highlight.NominatedBy, highlight.Status,
		answers, highlight.Composed, highlight.FinalText, highlight.SubmittedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalAnswers(answers map[string]string) ([]byte, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	return json.Marshal(answers)
}

func scanHighlight(row pgx.Row) (*model.MemberHighlight, error) {
	var (
		highlight model.MemberHighlight
		status    string
		answers   []byte
	)
	err := row.Scan(
		&highlight.ID,
		&highlight.IssueID,
		&highlight.MemberID,
		&highlight.NominatedBy,
		&status,
		&answers,
		&highlight.Composed,
		&highlight.FinalText,
		&highlight.SubmittedAt,
		&highlight.CreatedAt,
		&highlight.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	highlight.Status = model.ContributionStatus(status)
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &highlight.Answers); err != nil {
			return nil, err
		}
	}
	return &highlight, nil
}
