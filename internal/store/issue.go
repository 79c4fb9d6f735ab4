package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/common/id"
	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type issueStore struct {
	q db.Querier
}

const issueColumns = `id, period, period_start, period_end, publish_on, status, qotm_prompt, digest_channel, digest_ts, created_at, updated_at`

func (s *issueStore) GetOrCreate(ctx context.Context, period string, start, end, publishOn time.Time) (*model.Issue, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on
	// conflict, so concurrent callers always observe one issue per period.
	row := s.q.QueryRow(ctx, `
		INSERT INTO issues (id, period, period_start, period_end, publish_on, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (period) DO UPDATE SET period = EXCLUDED.period
		RETURNING `+issueColumns,
		id.New(), period, start, end, publishOn, model.IssueStatusBuilding)
	return scanIssue(row)
}

func (s *issueStore) GetByID(ctx context.Context, issueID int64) (*model.Issue, error) {
	row := s.q.QueryRow(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, issueID)
	return scanIssue(row)
}

func (s *issueStore) GetByPeriod(ctx context.Context, period string) (*model.Issue, error) {
	row := s.q.QueryRow(ctx, `SELECT `+issueColumns+` FROM issues WHERE period = $1`, period)
	return scanIssue(row)
}

func (s *issueStore) SetQOTMPrompt(ctx context.Context, issueID int64, prompt *string) error {
	tag, err := s.q.Exec(ctx, `UPDATE issues SET qotm_prompt = $2, updated_at = now() WHERE id = $1`, issueID, prompt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *issueStore) SetDigestRef(ctx context.Context, issueID int64, ref model.MessageRef) error {
	tag, err := s.q.Exec(ctx, `UPDATE issues SET digest_channel = $2, digest_ts = $3, updated_at = now() WHERE id = $1`,
		issueID, ref.Channel, ref.Timestamp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *issueStore) UpdateStatus(ctx context.Context, issueID int64, status model.IssueStatus) error {
	tag, err := s.q.Exec(ctx, `UPDATE issues SET status = $2, updated_at = now() WHERE id = $1`, issueID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanIssue(row pgx.Row) (*model.Issue, error) {
	var (
		issue         model.Issue
		status        string
		digestChannel *string
		digestTS      *string
	)
	err := row.Scan(
		&issue.ID,
		&issue.Period,
		&issue.PeriodStart,
		&issue.PeriodEnd,
		&issue.PublishOn,
		&status,
		&issue.QOTMPrompt,
		&digestChannel,
		&digestTS,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	issue.Status = model.IssueStatus(status)
	if digestChannel != nil && digestTS != nil {
		issue.DigestRef = &model.MessageRef{Channel: *digestChannel, Timestamp: *digestTS}
	}
	return &issue, nil
}
