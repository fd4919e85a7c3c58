package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

// ModerationService drives the review queue of pending edit suggestions.
// Approvals and rejections mutate the queue in memory as soon as the server
// confirms them, so the moderator never waits for a full reload.
type ModerationService struct {
	api    ports.ModerationAPI
	logger zerolog.Logger
	queue  *PendingList[domain.Suggestion]
}

func NewModerationService(api ports.ModerationAPI, logger zerolog.Logger) *ModerationService {
	return &ModerationService{
		api:    api,
		logger: logger,
		queue:  NewPendingList(func(s domain.Suggestion) string { return s.ID }),
	}
}

// Load replaces the queue with the suggestions matching filter.
func (s *ModerationService) Load(ctx context.Context, filter ports.SuggestionFilter) error {
	return s.queue.Load(ctx, func(ctx context.Context) ([]domain.Suggestion, error) {
		return s.api.ListSuggestions(ctx, filter)
	})
}

// Approve accepts the suggestion and drops it from the queue on success.
func (s *ModerationService) Approve(ctx context.Context, id string) error {
	return s.queue.Invoke(ctx, id, func(ctx context.Context, id string) error {
		if _, err := s.api.ApproveSuggestion(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("suggestion_id", id).Msg("approval failed")
			return err
		}
		s.logger.Info().Str("suggestion_id", id).Msg("suggestion approved")
		return nil
	})
}

// Reject declines the suggestion and drops it from the queue on success.
func (s *ModerationService) Reject(ctx context.Context, id string) error {
	return s.queue.Invoke(ctx, id, func(ctx context.Context, id string) error {
		if _, err := s.api.RejectSuggestion(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("suggestion_id", id).Msg("rejection failed")
			return err
		}
		s.logger.Info().Str("suggestion_id", id).Msg("suggestion rejected")
		return nil
	})
}

// Queue returns the current suggestions in review order.
func (s *ModerationService) Queue() []domain.Suggestion {
	return s.queue.Items()
}

// Loaded reports whether the queue has been fetched at least once.
func (s *ModerationService) Loaded() bool {
	return s.queue.Loaded()
}

// InFlight reports whether the suggestion has an action running.
func (s *ModerationService) InFlight(id string) bool {
	return s.queue.InFlight(id)
}
