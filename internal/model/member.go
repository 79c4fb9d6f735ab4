package model

import "time"

type Role string

const (
	RoleCoach Role = "coach"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

type Member struct {
	ID          int64     `json:"id"`
	SlackUserID string    `json:"slack_user_id"`
	DisplayName string    `json:"display_name"`
	Roles       []Role    `json:"roles"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *Member) HasRole(role Role) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
