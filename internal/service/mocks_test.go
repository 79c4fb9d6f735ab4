package service_test

import (
	"context"
	"time"

	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/store"
)

// Function-field mocks: tests assign only the methods they expect to be
// called; an unexpected call panics on the nil function and fails loudly.

type mockIssueStore struct {
	GetOrCreateFunc   func(ctx context.Context, period string, start, end, publishOn time.Time) (*model.Issue, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*model.Issue, error)
	GetByPeriodFunc   func(ctx context.Context, period string) (*model.Issue, error)
	SetQOTMPromptFunc func(ctx context.Context, id int64, prompt *string) error
	SetDigestRefFunc  func(ctx context.Context, id int64, ref model.MessageRef) error
	UpdateStatusFunc  func(ctx context.Context, id int64, status model.IssueStatus) error
}

func (m *mockIssueStore) GetOrCreate(ctx context.Context, period string, start, end, publishOn time.Time) (*model.Issue, error) {
	return m.GetOrCreateFunc(ctx, period, start, end, publishOn)
}
func (m *mockIssueStore) GetByID(ctx context.Context, id int64) (*model.Issue, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockIssueStore) GetByPeriod(ctx context.Context, period string) (*model.Issue, error) {
	return m.GetByPeriodFunc(ctx, period)
}
func (m *mockIssueStore) SetQOTMPrompt(ctx context.Context, id int64, prompt *string) error {
	return m.SetQOTMPromptFunc(ctx, id, prompt)
}
func (m *mockIssueStore) SetDigestRef(ctx context.Context, id int64, ref model.MessageRef) error {
	return m.SetDigestRefFunc(ctx, id, ref)
}
func (m *mockIssueStore) UpdateStatus(ctx context.Context, id int64, status model.IssueStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

type mockSectionStore struct {
	GetOrCreateFunc func(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error)
	GetFunc         func(ctx context.Context, issueID int64, sectionType model.SectionType) (*model.Section, error)
	ListByIssueFunc func(ctx context.Context, issueID int64) ([]model.Section, error)
	UpdateFunc      func(ctx context.Context, section *model.Section) error
}

func (m *mockSectionStore) GetOrCreate(ctx context.Context, issueID int64, t model.SectionType) (*model.Section, error) {
	return m.GetOrCreateFunc(ctx, issueID, t)
}
func (m *mockSectionStore) Get(ctx context.Context, issueID int64, t model.SectionType) (*model.Section, error) {
	return m.GetFunc(ctx, issueID, t)
}
func (m *mockSectionStore) ListByIssue(ctx context.Context, issueID int64) ([]model.Section, error) {
	return m.ListByIssueFunc(ctx, issueID)
}
func (m *mockSectionStore) Update(ctx context.Context, section *model.Section) error {
	return m.UpdateFunc(ctx, section)
}

type mockMemberStore struct {
	GetByIDFunc          func(ctx context.Context, id int64) (*model.Member, error)
	GetBySlackUserIDFunc func(ctx context.Context, slackUserID string) (*model.Member, error)
	ListActiveByRoleFunc func(ctx context.Context, role model.Role) ([]model.Member, error)
}

func (m *mockMemberStore) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockMemberStore) GetBySlackUserID(ctx context.Context, slackUserID string) (*model.Member, error) {
	return m.GetBySlackUserIDFunc(ctx, slackUserID)
}
func (m *mockMemberStore) ListActiveByRole(ctx context.Context, role model.Role) ([]model.Member, error) {
	return m.ListActiveByRoleFunc(ctx, role)
}

type mockEventStore struct {
	ListBetweenFunc func(ctx context.Context, from, to time.Time) ([]model.Event, error)
}

func (m *mockEventStore) ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	return m.ListBetweenFunc(ctx, from, to)
}

type mockHostStore struct {
	GetByIssueFunc    func(ctx context.Context, issueID int64) (*model.HostSpot, error)
	CreateFunc        func(ctx context.Context, spot *model.HostSpot) error
	UpdateFunc        func(ctx context.Context, spot *model.HostSpot) error
	ListSubmittedFunc func(ctx context.Context) ([]model.HostSpot, error)
}

func (m *mockHostStore) GetByIssue(ctx context.Context, issueID int64) (*model.HostSpot, error) {
	return m.GetByIssueFunc(ctx, issueID)
}
func (m *mockHostStore) Create(ctx context.Context, spot *model.HostSpot) error {
	return m.CreateFunc(ctx, spot)
}
func (m *mockHostStore) Update(ctx context.Context, spot *model.HostSpot) error {
	return m.UpdateFunc(ctx, spot)
}
func (m *mockHostStore) ListSubmitted(ctx context.Context) ([]model.HostSpot, error) {
	return m.ListSubmittedFunc(ctx)
}

type mockRotationStore struct {
	GetByIssueFunc    func(ctx context.Context, issueID int64) (*model.CoachRotation, error)
	CreateFunc        func(ctx context.Context, rotation *model.CoachRotation) error
	UpdateFunc        func(ctx context.Context, rotation *model.CoachRotation) error
	DeleteByIssueFunc func(ctx context.Context, issueID int64) error
	ListSubmittedFunc func(ctx context.Context) ([]model.CoachRotation, error)
}

func (m *mockRotationStore) GetByIssue(ctx context.Context, issueID int64) (*model.CoachRotation, error) {
	return m.GetByIssueFunc(ctx, issueID)
}
func (m *mockRotationStore) Create(ctx context.Context, rotation *model.CoachRotation) error {
	return m.CreateFunc(ctx, rotation)
}
func (m *mockRotationStore) Update(ctx context.Context, rotation *model.CoachRotation) error {
	return m.UpdateFunc(ctx, rotation)
}
func (m *mockRotationStore) DeleteByIssue(ctx context.Context, issueID int64) error {
	return m.DeleteByIssueFunc(ctx, issueID)
}
func (m *mockRotationStore) ListSubmitted(ctx context.Context) ([]model.CoachRotation, error) {
	return m.ListSubmittedFunc(ctx)
}

type mockHighlightStore struct {
	GetByIssueFunc func(ctx context.Context, issueID int64) (*model.MemberHighlight, error)
	CreateFunc     func(ctx context.Context, highlight *model.MemberHighlight) error
	UpdateFunc     func(ctx context.Context, highlight *model.MemberHighlight) error
}

func (m *mockHighlightStore) GetByIssue(ctx context.Context, issueID int64) (*model.MemberHighlight, error) {
	return m.GetByIssueFunc(ctx, issueID)
}
func (m *mockHighlightStore) Create(ctx context.Context, highlight *model.MemberHighlight) error {
	return m.CreateFunc(ctx, highlight)
}
func (m *mockHighlightStore) Update(ctx context.Context, highlight *model.MemberHighlight) error {
	return m.UpdateFunc(ctx, highlight)
}

type mockQOTMStore struct {
	UpsertFunc      func(ctx context.Context, resp *model.QOTMResponse) (*model.QOTMResponse, error)
	ListByIssueFunc func(ctx context.Context, issueID int64) ([]model.QOTMResponse, error)
	SetSelectedFunc func(ctx context.Context, issueID int64, ids []int64) error
}

func (m *mockQOTMStore) Upsert(ctx context.Context, resp *model.QOTMResponse) (*model.QOTMResponse, error) {
	return m.UpsertFunc(ctx, resp)
}
func (m *mockQOTMStore) ListByIssue(ctx context.Context, issueID int64) ([]model.QOTMResponse, error) {
	return m.ListByIssueFunc(ctx, issueID)
}
func (m *mockQOTMStore) SetSelected(ctx context.Context, issueID int64, ids []int64) error {
	return m.SetSelectedFunc(ctx, issueID, ids)
}

type mockPhotoStore struct {
	UpsertFunc      func(ctx context.Context, photo *model.PhotoSubmission) (*model.PhotoSubmission, error)
	ListByIssueFunc func(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error)
	SetSelectedFunc func(ctx context.Context, issueID int64, ids []int64) error
}

func (m *mockPhotoStore) Upsert(ctx context.Context, photo *model.PhotoSubmission) (*model.PhotoSubmission, error) {
	return m.UpsertFunc(ctx, photo)
}
func (m *mockPhotoStore) ListByIssue(ctx context.Context, issueID int64) ([]model.PhotoSubmission, error) {
	return m.ListByIssueFunc(ctx, issueID)
}
func (m *mockPhotoStore) SetSelected(ctx context.Context, issueID int64, ids []int64) error {
	return m.SetSelectedFunc(ctx, issueID, ids)
}

type mockMessenger struct {
	SendDMFunc        func(ctx context.Context, slackUserID, text string) (model.MessageRef, error)
	PostChannelFunc   func(ctx context.Context, channel, text string) (model.MessageRef, error)
	UpdateMessageFunc func(ctx context.Context, ref model.MessageRef, text string) error
	HistoryFunc       func(ctx context.Context, channel string, from, to time.Time, limit int) ([]messaging.Message, error)
}

func (m *mockMessenger) SendDM(ctx context.Context, slackUserID, text string) (model.MessageRef, error) {
	return m.SendDMFunc(ctx, slackUserID, text)
}
func (m *mockMessenger) PostChannel(ctx context.Context, channel, text string) (model.MessageRef, error) {
	return m.PostChannelFunc(ctx, channel, text)
}
func (m *mockMessenger) UpdateMessage(ctx context.Context, ref model.MessageRef, text string) error {
	return m.UpdateMessageFunc(ctx, ref, text)
}
func (m *mockMessenger) History(ctx context.Context, channel string, from, to time.Time, limit int) ([]messaging.Message, error) {
	return m.HistoryFunc(ctx, channel, from, to, limit)
}

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, req llm.Request) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	return m.GenerateFunc(ctx, req)
}
func (m *mockGenerator) Model() string { return "mock" }

type mockRunGuard struct {
	TryAcquireFunc func(ctx context.Context, period string, day int) (bool, error)
	ReleaseFunc    func(ctx context.Context, period string, day int) error
}

func (m *mockRunGuard) TryAcquire(ctx context.Context, period string, day int) (bool, error) {
	if m.TryAcquireFunc == nil {
		return true, nil
	}
	return m.TryAcquireFunc(ctx, period, day)
}
func (m *mockRunGuard) Release(ctx context.Context, period string, day int) error {
	if m.ReleaseFunc == nil {
		return nil
	}
	return m.ReleaseFunc(ctx, period, day)
}

// notFound is shorthand for store lookups that should report absence.
func notFound[T any](context.Context, int64) (*T, error) {
	return nil, store.ErrNotFound
}
