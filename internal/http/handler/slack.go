package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

// SlackHandler receives the /gazette slash command. Members answer the
// question of the month, submit coach pieces, and decline assignments
// without leaving the chat.
type SlackHandler struct {
	issues        service.IssueService
	coaches       service.CoachService
	qotm          service.QOTMService
	members       store.MemberStore
	signingSecret string
	location      *time.Location
}

func NewSlackHandler(issues service.IssueService, coaches service.CoachService, qotm service.QOTMService, members store.MemberStore, signingSecret string, location *time.Location) *SlackHandler {
	return &SlackHandler{
		issues:        issues,
		coaches:       coaches,
		qotm:          qotm,
		members:       members,
		signingSecret: signingSecret,
		location:      location,
	}
}

func (h *SlackHandler) Command(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.verify(c.Request.Header, body); err != nil {
		slog.WarnContext(c.Request.Context(), "slack signature verification failed", "error", err)
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	reply := h.dispatch(c, cmd)
	c.JSON(http.StatusOK, gin.H{"response_type": "ephemeral", "text": reply})
}

func (h *SlackHandler) verify(header http.Header, body []byte) error {
	verifier, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}

func (h *SlackHandler) dispatch(c *gin.Context, cmd slack.SlashCommand) string {
	ctx := c.Request.Context()

	member, err := h.members.GetBySlackUserID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "You're not registered as a club member yet. Ask an admin to add you."
		}
		slog.ErrorContext(ctx, "member lookup failed", "error", err)
		return "Something went wrong, try again in a bit."
	}

	issue, err := h.currentIssue(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "This month's issue hasn't started yet."
		}
		slog.ErrorContext(ctx, "issue lookup failed", "error", err)
		return "Something went wrong, try again in a bit."
	}

	verb, rest, _ := strings.Cut(strings.TrimSpace(cmd.Text), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "answer":
		if _, err := h.qotm.SubmitResponse(ctx, issue.ID, member.ID, rest); err != nil {
			return submissionError(err)
		}
		return "Answer recorded. Thanks!"

	case "coach":
		if _, err := h.coaches.Submit(ctx, issue.ID, member.ID, rest); err != nil {
			return submissionError(err)
		}
		return "Coach's Corner received. Thanks!"

	case "decline":
		if _, err := h.coaches.Decline(ctx, issue.ID, member.ID); err != nil {
			return submissionError(err)
		}
		return "No problem, we've passed it along."

	default:
		return "Usage: /gazette answer <text> | coach <text> | decline"
	}
}

func (h *SlackHandler) currentIssue(ctx context.Context) (*model.Issue, error) {
	period := model.PeriodFor(time.Now().In(h.location))
	return h.issues.GetByPeriod(ctx, period)
}

func submissionError(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyContent):
		return "Looks empty. Add your text after the command."
	case errors.Is(err, service.ErrNotAssignee), errors.Is(err, service.ErrNotAssigned):
		return "That one isn't assigned to you this month."
	default:
		return fmt.Sprintf("Couldn't save that: %s", err)
	}
}
