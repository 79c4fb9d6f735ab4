// Package messaging abstracts the workspace chat surface the newsletter is
// orchestrated through. Services depend on the Messenger interface; the
// Slack implementation lives alongside it.
package messaging

import (
	"context"
	"time"

	"pinecrest.club/gazette/internal/model"
)

// Message is a single channel message as read back for draft context.
type Message struct {
	AuthorID  string
	Text      string
	Timestamp time.Time
}

// Messenger sends and edits workspace messages. All identifiers are the
// chat platform's own (user IDs, channel names, message timestamps); the
// rest of the system never parses them.
type Messenger interface {
	// SendDM opens (or reuses) a direct conversation with the user and
	// posts text into it.
	SendDM(ctx context.Context, slackUserID, text string) (model.MessageRef, error)

	// PostChannel posts text to a channel and returns the ref needed to
	// update the message later.
	PostChannel(ctx context.Context, channel, text string) (model.MessageRef, error)

	// UpdateMessage replaces the text of a previously posted message.
	UpdateMessage(ctx context.Context, ref model.MessageRef, text string) error

	// History returns channel messages between from and to, oldest first,
	// capped at limit.
	History(ctx context.Context, channel string, from, to time.Time, limit int) ([]Message, error)
}
