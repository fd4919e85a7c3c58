package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

const defaultPollInterval = 2 * time.Second

// AIService submits agent jobs, follows them to completion and drives the
// review queue of the blocks a finished job drafted. Review follows the
// same optimistic pattern as moderation: a confirmed approval or rejection
// drops the draft from the queue without a refetch.
type AIService struct {
	api    ports.AIAPI
	poll   time.Duration
	logger zerolog.Logger

	drafts *PendingList[domain.AIBlockSuggestion]
}

// NewAIService creates an AIService polling at the given interval.
// If pollInterval <= 0, defaultPollInterval is used.
func NewAIService(api ports.AIAPI, pollInterval time.Duration, logger zerolog.Logger) *AIService {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &AIService{
		api:    api,
		poll:   pollInterval,
		logger: logger,
		drafts: NewPendingList(func(s domain.AIBlockSuggestion) string { return s.ID }),
	}
}

// Configurations lists the registered agent configurations.
func (s *AIService) Configurations(ctx context.Context) ([]domain.AIConfiguration, error) {
	return s.api.ListConfigurations(ctx)
}

// Configure registers a new agent configuration.
func (s *AIService) Configure(ctx context.Context, input ports.CreateAIConfigInput) (domain.AIConfiguration, error) {
	cfg, err := s.api.CreateConfiguration(ctx, input)
	if err != nil {
		return domain.AIConfiguration{}, err
	}
	s.logger.Info().Str("config_id", cfg.ID).Str("provider", string(cfg.Provider)).Msg("agent configuration created")
	return cfg, nil
}

// RemoveConfiguration deletes an agent configuration.
func (s *AIService) RemoveConfiguration(ctx context.Context, id string) error {
	return s.api.DeleteConfiguration(ctx, id)
}

// Submit queues an agent job. The backend accepts it immediately and runs
// it in the background; use AwaitJob to follow it to completion.
func (s *AIService) Submit(ctx context.Context, input ports.SubmitAIJobInput) (domain.AIJob, error) {
	job, err := s.api.SubmitJob(ctx, input)
	if err != nil {
		return domain.AIJob{}, err
	}
	s.logger.Info().Str("job_id", job.ID).Str("job_type", string(job.JobType)).Msg("agent job submitted")
	return job, nil
}

// Job fetches the current state of a job.
func (s *AIService) Job(ctx context.Context, id string) (domain.AIJob, error) {
	return s.api.GetJob(ctx, id)
}

// Jobs lists submitted jobs, newest first.
func (s *AIService) Jobs(ctx context.Context, skip, limit int) ([]domain.AIJob, error) {
	return s.api.ListJobs(ctx, skip, limit)
}

// Cancel asks the backend to stop a job that has not finished yet.
func (s *AIService) Cancel(ctx context.Context, id string) (domain.AIJob, error) {
	job, err := s.api.CancelJob(ctx, id)
	if err != nil {
		return domain.AIJob{}, err
	}
	s.logger.Info().Str("job_id", id).Msg("agent job cancelled")
	return job, nil
}

// AwaitJob polls the job until it reaches a terminal status or ctx ends.
// The last observed job state is returned alongside ctx's error when the
// wait is cut short.
func (s *AIService) AwaitJob(ctx context.Context, id string) (domain.AIJob, error) {
	job, err := s.api.GetJob(ctx, id)
	if err != nil {
		return domain.AIJob{}, err
	}
	if job.Status.Terminal() {
		return job, nil
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
			job, err = s.api.GetJob(ctx, id)
			if err != nil {
				return domain.AIJob{}, err
			}
			if job.Status.Terminal() {
				s.logger.Debug().Str("job_id", id).Str("status", string(job.Status)).Msg("agent job finished")
				return job, nil
			}
			s.logger.Debug().Str("job_id", id).Str("status", string(job.Status)).Msg("agent job still running")
		}
	}
}

// LoadReview replaces the draft queue with the block suggestions the given
// job produced.
func (s *AIService) LoadReview(ctx context.Context, jobID string) error {
	return s.drafts.Load(ctx, func(ctx context.Context) ([]domain.AIBlockSuggestion, error) {
		return s.api.ListJobSuggestions(ctx, jobID)
	})
}

// ApproveDraft turns the drafted block into a real one and drops it from
// the review queue on success.
func (s *AIService) ApproveDraft(ctx context.Context, id string) error {
	return s.drafts.Invoke(ctx, id, func(ctx context.Context, id string) error {
		if err := s.api.ApproveJobSuggestion(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("draft_id", id).Msg("draft approval failed")
			return err
		}
		s.logger.Info().Str("draft_id", id).Msg("draft approved")
		return nil
	})
}

// RejectDraft discards the drafted block and drops it from the review
// queue on success.
func (s *AIService) RejectDraft(ctx context.Context, id string) error {
	return s.drafts.Invoke(ctx, id, func(ctx context.Context, id string) error {
		if err := s.api.RejectJobSuggestion(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("draft_id", id).Msg("draft rejection failed")
			return err
		}
		s.logger.Info().Str("draft_id", id).Msg("draft rejected")
		return nil
	})
}

// Drafts returns the review queue in order.
func (s *AIService) Drafts() []domain.AIBlockSuggestion {
	return s.drafts.Items()
}
