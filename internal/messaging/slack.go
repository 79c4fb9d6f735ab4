package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"pinecrest.club/gazette/internal/model"
)

// SlackMessenger implements Messenger on the Slack Web API.
type SlackMessenger struct {
	client *slack.Client
}

func NewSlackMessenger(botToken string) *SlackMessenger {
	return &SlackMessenger{client: slack.New(botToken)}
}

func (m *SlackMessenger) SendDM(ctx context.Context, slackUserID, text string) (model.MessageRef, error) {
	channel, _, _, err := m.client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{slackUserID},
	})
	if err != nil {
		return model.MessageRef{}, fmt.Errorf("open dm with %s: %w", slackUserID, err)
	}
	return m.post(ctx, channel.ID, text)
}

func (m *SlackMessenger) PostChannel(ctx context.Context, channel, text string) (model.MessageRef, error) {
	return m.post(ctx, channel, text)
}

func (m *SlackMessenger) post(ctx context.Context, channel, text string) (model.MessageRef, error) {
	ch, ts, err := m.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return model.MessageRef{}, fmt.Errorf("post message: %w", err)
	}
	return model.MessageRef{Channel: ch, Timestamp: ts}, nil
}

func (m *SlackMessenger) UpdateMessage(ctx context.Context, ref model.MessageRef, text string) error {
	_, _, _, err := m.client.UpdateMessageContext(ctx, ref.Channel, ref.Timestamp,
		slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("update message %s/%s: %w", ref.Channel, ref.Timestamp, err)
	}
	return nil
}

func (m *SlackMessenger) History(ctx context.Context, channel string, from, to time.Time, limit int) ([]Message, error) {
	resp, err := m.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Oldest:    slackTimestamp(from),
		Latest:    slackTimestamp(to),
		Limit:     limit,
		Inclusive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation history %s: %w", channel, err)
	}

	// Slack returns newest first.
	messages := make([]Message, 0, len(resp.Messages))
	for i := len(resp.Messages) - 1; i >= 0; i-- {
		msg := resp.Messages[i]
		if msg.SubType != "" || msg.Text == "" {
			continue
		}
		messages = append(messages, Message{
			AuthorID:  msg.User,
			Text:      msg.Text,
			Timestamp: parseSlackTimestamp(msg.Timestamp),
		})
	}
	return messages, nil
}

// IsRetryable reports whether a Slack API failure is worth retrying.
// Rate limits carry their own retry-after; auth and argument errors do not
// heal on their own.
func IsRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var rle *slack.RateLimitedError
	if errors.As(err, &rle) {
		return true
	}
	var serr slack.SlackErrorResponse
	if errors.As(err, &serr) {
		switch serr.Err {
		case "internal_error", "service_unavailable", "fatal_error":
			return true
		default:
			return false
		}
	}
	// Transport-level failures (timeouts, resets) surface as plain errors.
	return true
}

func slackTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.000000", t.Unix())
}

func parseSlackTimestamp(ts string) time.Time {
	secs, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
