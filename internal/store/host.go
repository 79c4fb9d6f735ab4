package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type hostStore struct {
	q db.Querier
}

const hostColumns = `id, issue_id, member_id, guest_name, status, opener, closer, submitted_at, created_at, updated_at`

func (s *hostStore) GetByIssue(ctx context.Context, issueID int64) (*model.HostSpot, error) {
	row := s.q.QueryRow(ctx, `SELECT `+hostColumns+` FROM host_spots WHERE issue_id = $1`, issueID)
	return scanHostSpot(row)
}

func (s *hostStore) Create(ctx context.Context, spot *model.HostSpot) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO host_spots (id, issue_id, member_id, guest_name, status)
		VALUES ($1, $2, $3, $4, $5)`,
		spot.ID, spot.IssueID, spot.MemberID, spot.GuestName, spot.Status)
	return mapUniqueViolation(err)
}

func (s *hostStore) Update(ctx context.Context, spot *model.HostSpot) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE host_spots
		SET member_id = $2, guest_name = $3, status = $4, opener = $5, closer = $6,
		    submitted_at = $7, updated_at = now()
		WHERE id = $1`,
		spot.ID, spot.MemberID, spot.GuestName, spot.Status, spot.Opener, spot.Closer, spot.SubmittedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *hostStore) ListSubmitted(ctx context.Context) ([]model.HostSpot, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+hostColumns+` FROM host_spots WHERE status = $1 ORDER BY submitted_at`,
		model.ContributionSubmitted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []model.HostSpot
	for rows.Next() {
		spot, err := scanHostSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, *spot)
	}
	return spots, rows.Err()
}

func scanHostSpot(row pgx.Row) (*model.HostSpot, error) {
	var (
		spot   model.HostSpot
		status string
	)
	err := row.Scan(
		&spot.ID,
		&spot.IssueID,
		&spot.MemberID,
		&spot.GuestName,
		&status,
		&spot.Opener,
		&spot.Closer,
		&spot.SubmittedAt,
		&spot.CreatedAt,
		&spot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	spot.Status = model.ContributionStatus(status)
	return &spot, nil
}

// mapUniqueViolation converts a Postgres unique violation into ErrConflict
// so callers can distinguish "already assigned" from real failures.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}
