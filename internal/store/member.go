package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type memberStore struct {
	q db.Querier
}

const memberColumns = `id, slack_user_id, display_name, roles, active, created_at`

func (s *memberStore) GetByID(ctx context.Context, memberID int64) (*model.Member, error) {
	row := s.q.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, memberID)
	return scanMember(row)
}

func (s *memberStore) GetBySlackUserID(ctx context.Context, slackUserID string) (*model.Member, error) {
	row := s.q.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE slack_user_id = $1`, slackUserID)
	return scanMember(row)
}

func (s *memberStore) ListActiveByRole(ctx context.Context, role model.Role) ([]model.Member, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+memberColumns+` FROM members WHERE active AND $1 = ANY(roles) ORDER BY id`,
		string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}

func scanMember(row pgx.Row) (*model.Member, error) {
	var (
		member model.Member
		roles  []string
	)
	err := row.Scan(
		&member.ID,
		&member.SlackUserID,
		&member.DisplayName,
		&roles,
		&member.Active,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	member.Roles = make([]model.Role, len(roles))
	for i, r := range roles {
		member.Roles[i] = model.Role(r)
	}
	return &member, nil
}
