package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pinecrest.club/gazette/core/config"
	"pinecrest.club/gazette/internal/http/handler"
	"pinecrest.club/gazette/internal/http/middleware"
	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

// New builds the HTTP router: a health endpoint, the Slack webhook, and the
// admin trigger surface behind the API key.
func New(cfg config.Config, services *service.Services, stores *store.Stores, location *time.Location) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	r.Use(middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	slackHandler := handler.NewSlackHandler(
		services.Issues, services.Coaches, services.QOTM,
		stores.Members(), cfg.Slack.SigningSecret, location)
	r.POST("/webhooks/slack/command", slackHandler.Command)

	registerAdminRoutes(r, cfg, services, location)

	return r
}

func registerAdminRoutes(r *gin.Engine, cfg config.Config, services *service.Services, location *time.Location) {
	orchestratorHandler := handler.NewOrchestratorHandler(services.Orchestrator, location)
	issueHandler := handler.NewIssueHandler(services.Issues, services.Editor)
	contributionHandler := handler.NewContributionHandler(services.Issues, services.Coaches, services.Hosts, services.Highlights)
	curationHandler := handler.NewCurationHandler(services.Issues, services.QOTM, services.Photos)

	admin := r.Group("/admin", middleware.RequireAdminAPIKey(cfg.AdminAPIKey))

	admin.POST("/orchestrator/run", orchestratorHandler.RunDay)

	issues := admin.Group("/issues/:period")
	{
		issues.GET("", issueHandler.Get)
		issues.POST("/qotm-prompt", issueHandler.SetQOTMPrompt)
		issues.POST("/approve", issueHandler.Approve)
		issues.POST("/publish", issueHandler.Publish)
		issues.POST("/digest", issueHandler.RefreshDigest)

		issues.GET("/sections/:type", issueHandler.GetSection)
		issues.PUT("/sections/:type", issueHandler.EditSection)
		issues.POST("/sections/:type/lock", issueHandler.LockSection)

		issues.POST("/coach", contributionHandler.AssignCoach)
		issues.POST("/coach/submission", contributionHandler.SubmitCoach)
		issues.POST("/coach/decline", contributionHandler.DeclineCoach)

		issues.POST("/host", contributionHandler.AssignHost)
		issues.POST("/host/submission", contributionHandler.SubmitHost)
		issues.POST("/host/decline", contributionHandler.DeclineHost)

		issues.POST("/highlight", contributionHandler.NominateHighlight)
		issues.POST("/highlight/answers", contributionHandler.SubmitHighlightAnswers)
		issues.POST("/highlight/decline", contributionHandler.DeclineHighlight)

		issues.GET("/qotm/responses", curationHandler.ListQOTMResponses)
		issues.POST("/qotm/curation", curationHandler.CurateQOTM)

		issues.GET("/photos", curationHandler.ListPhotos)
		issues.POST("/photos", curationHandler.SubmitPhoto)
		issues.POST("/photos/curation", curationHandler.CuratePhotos)
	}
}
