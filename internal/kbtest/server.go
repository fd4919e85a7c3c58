// Package kbtest provides an in-memory knowledge base backend for tests.
// It speaks the same routes and wire shapes as the production API, signs
// real JWTs, hashes passwords with bcrypt and enforces the same role
// grants, so client code can be exercised end to end without a network.
//
// All state lives in memory. Job execution is driven explicitly through
// RunJob, FinishJob and FailJob so tests stay deterministic.
package kbtest

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

type userRecord struct {
	identity     domain.Identity
	passwordHash string
}

// Server is the fake backend. Obtain its http.Handler and serve it from an
// httptest.Server.
type Server struct {
	echo   *echo.Echo
	secret string

	mu          sync.Mutex
	users       map[string]*userRecord
	blocks      []*domain.Block
	paths       []*domain.Path
	suggestions []*domain.Suggestion
	revisions   map[string][]domain.Revision
	mastery     map[string][]*masteryRecord
	configs     []*domain.AIConfiguration
	jobs        []*domain.AIJob
	drafts      map[string][]*domain.AIBlockSuggestion
}

// New builds a Server with no data and a random signing secret.
func New() *Server {
	s := &Server{
		secret:    uuid.NewString(),
		users:     make(map[string]*userRecord),
		revisions: make(map[string][]domain.Revision),
		mastery:   make(map[string][]*masteryRecord),
		drafts:    make(map[string][]*domain.AIBlockSuggestion),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = errorHandler
	s.routes(e)
	s.echo = e
	return s
}

// Handler returns the HTTP handler of the fake backend.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/users/register", s.handleRegister)
	e.POST("/users/login", s.handleLogin)
	e.GET("/users/me", s.handleMe, s.requireAuth)

	// Reading is public, writing needs the matching grant.
	e.GET("/blocks", s.handleListBlocks)
	e.GET("/blocks/:id", s.handleGetBlock)
	e.GET("/blocks/:id/revisions", s.handleListRevisions)
	e.POST("/blocks", s.handleCreateBlock, s.requireAuth, s.requirePermission(domain.PermCreateBlocks))
	e.PUT("/blocks/:id", s.handleUpdateBlock, s.requireAuth, s.requirePermission(domain.PermCreateBlocks))
	e.DELETE("/blocks/:id", s.handleDeleteBlock, s.requireAuth, s.requirePermission(domain.PermModerateContent))
	e.POST("/blocks/:id/suggestions", s.handleSuggestEdit, s.requireAuth, s.requirePermission(domain.PermCreateSuggestions))

	e.GET("/paths", s.handleListPaths)
	e.GET("/paths/:id", s.handleGetPath)
	e.POST("/paths", s.handleCreatePath, s.requireAuth, s.requirePermission(domain.PermCreatePaths))
	e.PUT("/paths/:id", s.handleUpdatePath, s.requireAuth, s.requirePermission(domain.PermCreatePaths))
	e.DELETE("/paths/:id", s.handleDeletePath, s.requireAuth, s.requirePermission(domain.PermModerateContent))

	// Mastery is per account, so any signed-in user may track their own.
	e.POST("/blocks/:id/master", s.handleMasterBlock, s.requireAuth)
	e.DELETE("/blocks/:id/master", s.handleUnmasterBlock, s.requireAuth)
	e.GET("/blocks/:id/progress", s.handleBlockProgress, s.requireAuth)
	e.POST("/paths/:id/master", s.handleMasterPath, s.requireAuth)
	e.GET("/users/me/progress", s.handleMyProgress, s.requireAuth)

	mod := e.Group("/moderation", s.requireAuth, s.requirePermission(domain.PermReviewSuggestions))
	mod.GET("/suggestions", s.handleListSuggestions)
	mod.POST("/suggestions/:id/approve", s.handleApproveSuggestion)
	mod.POST("/suggestions/:id/reject", s.handleRejectSuggestion)

	e.GET("/search", s.handleSearch)
	e.POST("/search/reindex", s.handleReindex, s.requireAuth, s.requireRole(domain.RoleAdmin))

	ai := e.Group("/v1/ai", s.requireAuth, s.requirePermission(domain.PermUseAIAgents))
	ai.GET("/configurations", s.handleListConfigurations)
	ai.POST("/configurations", s.handleCreateConfiguration)
	ai.DELETE("/configurations/:id", s.handleDeleteConfiguration)
	ai.POST("/jobs", s.handleSubmitJob)
	ai.GET("/jobs", s.handleListJobs)
	ai.GET("/jobs/:id", s.handleGetJob)
	ai.POST("/jobs/:id/cancel", s.handleCancelJob)
	ai.GET("/jobs/:id/suggestions", s.handleListJobDrafts)

	// Draft review sits outside the group: approving publishes a block, so
	// it needs the block grant rather than agent access.
	e.POST("/v1/ai/suggestions/:id/approve", s.handleApproveJobDraft, s.requireAuth, s.requirePermission(domain.PermCreateBlocks))
	e.POST("/v1/ai/suggestions/:id/reject", s.handleRejectJobDraft, s.requireAuth, s.requirePermission(domain.PermUseAIAgents))
}

// errorHandler renders every error as the canonical {"error": ...}
// envelope without leaking internals.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, echo.Map{"error": he.Message})
		return
	}
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
