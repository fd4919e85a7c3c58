package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// CreateAIConfigInput is the payload for registering an agent
// configuration. The key is write only and never echoed back.
type CreateAIConfigInput struct {
	Name        string             `json:"name" validate:"required,min=1,max=100"`
	Description string             `json:"description,omitempty"`
	Provider    domain.AIProvider  `json:"provider" validate:"required"`
	AgentType   domain.AIAgentType `json:"agent_type" validate:"required"`
	ModelName   string             `json:"model_name" validate:"required"`
	APIKey      string             `json:"api_key" validate:"required"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

// SubmitAIJobInput is the payload for queueing an agent job.
type SubmitAIJobInput struct {
	ConfigurationID string             `json:"configuration_id" validate:"required"`
	JobType         domain.AIAgentType `json:"job_type" validate:"required"`
	Prompt          string             `json:"input_prompt" validate:"required"`
	BlockID         string             `json:"block_id,omitempty"`
	PathID          string             `json:"path_id,omitempty"`
}

// AIAPI defines the agent operations: provider configurations, the job
// queue, and review of the suggestions a finished job produced.
type AIAPI interface {
	ListConfigurations(ctx context.Context) ([]domain.AIConfiguration, error)
	CreateConfiguration(ctx context.Context, input CreateAIConfigInput) (domain.AIConfiguration, error)
	DeleteConfiguration(ctx context.Context, id string) error

	SubmitJob(ctx context.Context, input SubmitAIJobInput) (domain.AIJob, error)
	GetJob(ctx context.Context, id string) (domain.AIJob, error)
	ListJobs(ctx context.Context, skip, limit int) ([]domain.AIJob, error)
	CancelJob(ctx context.Context, id string) (domain.AIJob, error)

	ListJobSuggestions(ctx context.Context, jobID string) ([]domain.AIBlockSuggestion, error)
	ApproveJobSuggestion(ctx context.Context, suggestionID string) error
	RejectJobSuggestion(ctx context.Context, suggestionID string) error
}
