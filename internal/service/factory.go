package service

import (
	"pinecrest.club/gazette/common/llm"
	"pinecrest.club/gazette/core/config"
	"pinecrest.club/gazette/internal/messaging"
	"pinecrest.club/gazette/internal/store"
)

// Services bundles every service behind one constructor for wiring in main.
type Services struct {
	Issues       IssueService
	Coaches      CoachService
	Hosts        HostService
	Highlights   HighlightService
	QOTM         QOTMService
	Photos       PhotoService
	Drafts       DraftService
	Editor       EditorService
	Orchestrator OrchestratorService
}

func NewServices(cfg *config.Config, stores *store.Stores, messenger messaging.Messenger, generator llm.Client, guard RunGuard) *Services {
	channel := cfg.Slack.Channel

	issues := NewIssueService(stores.Issues(), stores.Sections(), messenger, channel)
	coaches := NewCoachService(stores.Rotations(), stores.Members(), stores.Sections(), messenger)
	hosts := NewHostService(stores.Hosts(), stores.Members(), stores.Sections(), messenger, channel, cfg.Newsletter.AutoReselectHost)
	highlights := NewHighlightService(stores.Highlights(), stores.Members(), messenger, channel)
	qotm := NewQOTMService(stores.Issues(), stores.QOTM(), stores.Sections(), messenger, channel)
	photos := NewPhotoService(stores.Photos(), stores.Sections())
	drafts := NewDraftService(stores.Sections(), stores.Events(), stores.Highlights(), messenger, generator, channel, cfg.OpenAI.MaxTokens)
	editor := NewEditorService(stores.Sections())
	orchestrator := NewOrchestratorService(issues, coaches, hosts, highlights, qotm, drafts, guard)

	return &Services{
		Issues:       issues,
		Coaches:      coaches,
		Hosts:        hosts,
		Highlights:   highlights,
		QOTM:         qotm,
		Photos:       photos,
		Drafts:       drafts,
		Editor:       editor,
		Orchestrator: orchestrator,
	}
}
