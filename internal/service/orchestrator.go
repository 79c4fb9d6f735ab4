package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pinecrest.club/gazette/common/logger"
	"pinecrest.club/gazette/internal/model"
)

// RunGuard prevents two orchestrator runs for the same (period, day) from
// overlapping. A sequential re-trigger the same day is allowed; the guard
// is released when the run finishes.
type RunGuard interface {
	TryAcquire(ctx context.Context, period string, day int) (bool, error)
	Release(ctx context.Context, period string, day int) error
}

// RunResult is what a trigger (cron or manual) gets back: everything that
// happened and everything that failed, so an admin retriggering the same
// day sees exactly which sub-actions still need attention.
type RunResult struct {
	Period  string   `json:"period"`
	Day     int      `json:"day"`
	Actions []string `json:"actions"`
	Errors  []string `json:"errors"`
}

func (r *RunResult) Success() bool {
	return len(r.Errors) == 0
}

// ActionNoOp is recorded when the day has no scheduled steps. A silent
// no-op run is indistinguishable from a missed schedule; an explicit
// result is not.
const ActionNoOp = "no_action_needed"

// OrchestratorService executes the fixed day-of-month plan. The day is a
// parameter rather than derived internally so any day is replayable.
type OrchestratorService interface {
	RunDay(ctx context.Context, day int, at time.Time) (*RunResult, error)
}

// step is one isolated unit of a day's plan with its own error boundary.
type step struct {
	name string
	run  func(ctx context.Context, issue *model.Issue) ([]string, []error)
}

type orchestratorService struct {
	issues     IssueService
	coaches    CoachService
	hosts      HostService
	highlights HighlightService
	qotm       QOTMService
	drafts     DraftService
	guard      RunGuard
	plan       map[int][]step
}

func NewOrchestratorService(issues IssueService, coaches CoachService, hosts HostService, highlights HighlightService, qotm QOTMService, drafts DraftService, guard RunGuard) OrchestratorService {
	s := &orchestratorService{
		issues:     issues,
		coaches:    coaches,
		hosts:      hosts,
		highlights: highlights,
		qotm:       qotm,
		drafts:     drafts,
		guard:      guard,
	}
	s.plan = map[int][]step{
		1: {
			{name: "assign_coach", run: s.assignCoach},
			{name: "notify_host", run: s.notifyHost},
			{name: "post_qotm_prompt", run: s.postQOTMPrompt},
		},
		5: {
			{name: "request_member_highlight", run: s.requestHighlight},
		},
		10: {
			{name: "remind_host", run: s.remindHost},
			{name: "remind_coach", run: s.remindCoach},
		},
		12: {
			{name: "generate_drafts", run: s.generateDrafts},
			{name: "refresh_digest", run: s.refreshDigest},
		},
		13: {
			{name: "remind_host", run: s.remindHost},
			{name: "remind_coach", run: s.remindCoach},
		},
		14: {
			{name: "ready_for_review", run: s.readyForReview},
		},
		15: {
			// Publishing sends to everyone and cannot be undone, so it is
			// never automated. An admin triggers it explicitly.
			{name: "await_manual_publish", run: s.awaitManualPublish},
		},
	}
	return s
}

func (s *orchestratorService) RunDay(ctx context.Context, day int, at time.Time) (*RunResult, error) {
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day %d out of range", day)
	}
	period := model.PeriodFor(at)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Period: &period, Day: &day, Component: "orchestrator"})

	acquired, err := s.guard.TryAcquire(ctx, period, day)
	if err != nil {
		return nil, err
	}
	if !acquired {
		slog.WarnContext(ctx, "orchestrator run already in progress")
		return &RunResult{Period: period, Day: day, Actions: []string{"skipped: run already in progress"}}, nil
	}
	defer func() {
		if err := s.guard.Release(ctx, period, day); err != nil {
			slog.ErrorContext(ctx, "failed to release run lock", "error", err)
		}
	}()

	issue, err := s.issues.GetOrCreate(ctx, at)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: &issue.ID})

	result := &RunResult{Period: period, Day: day}
	steps, ok := s.plan[day]
	if !ok {
		slog.InfoContext(ctx, "no actions scheduled for day")
		result.Actions = append(result.Actions, ActionNoOp)
		return result, nil
	}

	for _, st := range steps {
		notes, errs := s.runStep(ctx, st, issue)
		for _, note := range notes {
			result.Actions = append(result.Actions, st.name+": "+note)
		}
		for _, stepErr := range errs {
			result.Errors = append(result.Errors, st.name+": "+stepErr.Error())
		}
	}

	slog.InfoContext(ctx, "orchestrator run complete",
		"actions", len(result.Actions), "errors", len(result.Errors))
	return result, nil
}

// runStep isolates one step: a panic or error in one contributor's action
// never blocks the rest of the day's plan.
func (s *orchestratorService) runStep(ctx context.Context, st step, issue *model.Issue) (notes []string, errs []error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "orchestrator step panicked", "step", st.name, "panic", r)
			errs = append(errs, fmt.Errorf("panic: %v", r))
		}
	}()
	notes, errs = st.run(ctx, issue)
	for _, err := range errs {
		slog.ErrorContext(ctx, "orchestrator step failed", "step", st.name, "error", err)
	}
	return notes, errs
}

func (s *orchestratorService) assignCoach(ctx context.Context, issue *model.Issue) ([]string, []error) {
	_, err := s.coaches.Assign(ctx, issue.ID, nil, false)
	switch {
	case errors.Is(err, ErrAlreadyAssigned):
		// Re-running day 1 must not reassign.
		return []string{"already assigned"}, nil
	case err != nil:
		return nil, []error{err}
	}
	if err := s.coaches.Request(ctx, issue.ID); err != nil {
		return []string{"assigned"}, []error{fmt.Errorf("notify coach: %w", err)}
	}
	return []string{"assigned and notified"}, nil
}

func (s *orchestratorService) notifyHost(ctx context.Context, issue *model.Issue) ([]string, []error) {
	result, err := s.hosts.Notify(ctx, issue.ID)
	if errors.Is(err, ErrNotAssigned) {
		return []string{"skipped, no host assigned"}, nil
	}
	if err != nil {
		return nil, []error{err}
	}
	return []string{string(result)}, nil
}

func (s *orchestratorService) postQOTMPrompt(ctx context.Context, issue *model.Issue) ([]string, []error) {
	result, err := s.qotm.PostPrompt(ctx, issue)
	if err != nil {
		return nil, []error{err}
	}
	return []string{string(result)}, nil
}

func (s *orchestratorService) requestHighlight(ctx context.Context, issue *model.Issue) ([]string, []error) {
	result, err := s.highlights.Request(ctx, issue.ID)
	if err != nil {
		return nil, []error{err}
	}
	return []string{string(result)}, nil
}

func (s *orchestratorService) remindHost(ctx context.Context, issue *model.Issue) ([]string, []error) {
	result, err := s.hosts.Remind(ctx, issue.ID)
	if errors.Is(err, ErrNotAssigned) {
		return []string{"skipped, no host assigned"}, nil
	}
	if err != nil {
		return nil, []error{err}
	}
	return []string{string(result)}, nil
}

func (s *orchestratorService) remindCoach(ctx context.Context, issue *model.Issue) ([]string, []error) {
	result, err := s.coaches.Remind(ctx, issue.ID)
	if errors.Is(err, ErrNotAssigned) {
		return []string{"skipped, no coach assigned"}, nil
	}
	if err != nil {
		return nil, []error{err}
	}
	return []string{string(result)}, nil
}

func (s *orchestratorService) generateDrafts(ctx context.Context, issue *model.Issue) ([]string, []error) {
	return s.drafts.GenerateAll(ctx, issue)
}

func (s *orchestratorService) refreshDigest(ctx context.Context, issue *model.Issue) ([]string, []error) {
	if err := s.issues.RefreshDigest(ctx, issue); err != nil {
		return nil, []error{err}
	}
	return []string{"digest updated"}, nil
}

func (s *orchestratorService) readyForReview(ctx context.Context, issue *model.Issue) ([]string, []error) {
	if issue.Status == model.IssueStatusPublished {
		return []string{"skipped, already published"}, nil
	}
	if err := s.issues.MarkReadyForReview(ctx, issue); err != nil {
		return nil, []error{err}
	}
	return []string{"review requested"}, nil
}

func (s *orchestratorService) awaitManualPublish(_ context.Context, _ *model.Issue) ([]string, []error) {
	return []string{"publish is a manual step"}, nil
}
