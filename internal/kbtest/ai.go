package kbtest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

func (s *Server) handleListConfigurations(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AIConfiguration, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, *cfg)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateConfiguration(c echo.Context) error {
	var req ports.CreateAIConfigInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	cfg := &domain.AIConfiguration{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Provider:    req.Provider,
		AgentType:   req.AgentType,
		ModelName:   req.ModelName,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		IsActive:    true,
		CreatedAt:   now(),
	}
	s.mu.Lock()
	s.configs = append(s.configs, cfg)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, *cfg)
}

func (s *Server) handleDeleteConfiguration(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	for i, cfg := range s.configs {
		if cfg.ID == id {
			s.configs = append(s.configs[:i], s.configs[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "configuration not found"})
}

func (s *Server) handleSubmitJob(c echo.Context) error {
	var req ports.SubmitAIJobInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findConfig(req.ConfigurationID) == nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown configuration id"})
	}

	job := &domain.AIJob{
		ID:              uuid.NewString(),
		ConfigurationID: req.ConfigurationID,
		JobType:         req.JobType,
		Status:          domain.AIJobPending,
		InputPrompt:     req.Prompt,
		CreatedAt:       now(),
	}
	s.jobs = append(s.jobs, job)
	return c.JSON(http.StatusAccepted, *job)
}

func (s *Server) handleListJobs(c echo.Context) error {
	skip, limit := pageParams(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AIJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return c.JSON(http.StatusOK, page(out, skip, limit))
}

func (s *Server) handleGetJob(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.findJob(c.Param("id"))
	if job == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}
	return c.JSON(http.StatusOK, *job)
}

func (s *Server) handleCancelJob(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.findJob(c.Param("id"))
	if job == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}
	if job.Status.Terminal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "job already finished"})
	}

	job.Status = domain.AIJobCancelled
	t := now()
	job.CompletedAt = &t
	return c.JSON(http.StatusOK, *job)
}

func (s *Server) handleListJobDrafts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobID := c.Param("id")
	if s.findJob(jobID) == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}
	drafts := s.drafts[jobID]
	out := make([]domain.AIBlockSuggestion, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, *d)
	}
	return c.JSON(http.StatusOK, out)
}

// handleApproveJobDraft promotes the draft into a real published block.
func (s *Server) handleApproveJobDraft(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.findDraft(c.Param("id"))
	if draft == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	if draft.Status != domain.SuggestionPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "draft already reviewed"})
	}

	block := &domain.Block{
		ID:          uuid.NewString(),
		Slug:        draft.Slug,
		Title:       draft.Title,
		Content:     draft.Content,
		BlockType:   draft.BlockType,
		IsPublished: true,
		CreatedAt:   now(),
		UpdatedAt:   now(),
		CreatedByID: callerIdentity(c).ID,
	}
	if block.Slug == "" {
		block.Slug = slugify(block.Title)
	}
	s.blocks = append(s.blocks, block)

	draft.Status = domain.SuggestionApproved
	return c.JSON(http.StatusOK, echo.Map{"message": "suggestion approved"})
}

func (s *Server) handleRejectJobDraft(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.findDraft(c.Param("id"))
	if draft == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	}
	if draft.Status != domain.SuggestionPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "draft already reviewed"})
	}

	draft.Status = domain.SuggestionRejected
	return c.JSON(http.StatusOK, echo.Map{"message": "suggestion rejected"})
}

// SeedConfiguration registers an active agent configuration.
func (s *Server) SeedConfiguration(name string, agent domain.AIAgentType) domain.AIConfiguration {
	cfg := &domain.AIConfiguration{
		ID:          uuid.NewString(),
		Name:        name,
		Provider:    domain.AIProviderOpenAI,
		AgentType:   agent,
		ModelName:   "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   2048,
		IsActive:    true,
		CreatedAt:   now(),
	}
	s.mu.Lock()
	s.configs = append(s.configs, cfg)
	s.mu.Unlock()
	return *cfg
}

// RunJob moves a pending job to running.
func (s *Server) RunJob(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job := s.findJob(id); job != nil && job.Status == domain.AIJobPending {
		job.Status = domain.AIJobRunning
		t := now()
		job.StartedAt = &t
	}
}

// FinishJob completes a job and attaches the given drafts for review.
// Missing draft fields are filled in with sensible values.
func (s *Server) FinishJob(id string, drafts ...domain.AIBlockSuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.findJob(id)
	if job == nil || job.Status.Terminal() {
		return
	}

	job.Status = domain.AIJobCompleted
	t := now()
	job.CompletedAt = &t
	job.OutputData = map[string]any{"suggestions": len(drafts)}

	for _, d := range drafts {
		draft := d
		if draft.ID == "" {
			draft.ID = uuid.NewString()
		}
		draft.AIJobID = id
		if draft.Slug == "" {
			draft.Slug = slugify(draft.Title)
		}
		if draft.BlockType == "" {
			draft.BlockType = domain.BlockText
		}
		if draft.Status == "" {
			draft.Status = domain.SuggestionPending
		}
		if draft.CreatedAt.IsZero() {
			draft.CreatedAt = now()
		}
		s.drafts[id] = append(s.drafts[id], &draft)
	}
}

// FailJob marks a job failed with the given error message.
func (s *Server) FailJob(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.findJob(id)
	if job == nil || job.Status.Terminal() {
		return
	}
	job.Status = domain.AIJobFailed
	job.ErrorMessage = message
	t := now()
	job.CompletedAt = &t
}

func (s *Server) findConfig(id string) *domain.AIConfiguration {
	for _, cfg := range s.configs {
		if cfg.ID == id {
			return cfg
		}
	}
	return nil
}

func (s *Server) findJob(id string) *domain.AIJob {
	for _, job := range s.jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func (s *Server) findDraft(id string) *domain.AIBlockSuggestion {
	for _, drafts := range s.drafts {
		for _, d := range drafts {
			if d.ID == id {
				return d
			}
		}
	}
	return nil
}
