package domain

import "time"

// AIProvider identifies the upstream model provider of an AI configuration.
type AIProvider string

const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderCustom    AIProvider = "custom"
)

// AIAgentType selects the agent behavior an AI job runs with.
type AIAgentType string

const (
	AgentContentCreator    AIAgentType = "content_creator"
	AgentContentResearcher AIAgentType = "content_researcher"
	AgentContentEditor     AIAgentType = "content_editor"
	AgentCourseDesigner    AIAgentType = "course_designer"
)

// AIJobStatus is the lifecycle state of an asynchronous AI job.
type AIJobStatus string

const (
	AIJobPending   AIJobStatus = "pending"
	AIJobRunning   AIJobStatus = "running"
	AIJobCompleted AIJobStatus = "completed"
	AIJobFailed    AIJobStatus = "failed"
	AIJobCancelled AIJobStatus = "cancelled"
)

// Terminal reports whether the job has finished and will not change again.
func (s AIJobStatus) Terminal() bool {
	switch s {
	case AIJobCompleted, AIJobFailed, AIJobCancelled:
		return true
	}
	return false
}

// AIConfiguration is a named agent setup (provider, model, prompt limits)
// registered with the backend. API keys never leave the server.
type AIConfiguration struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Provider    AIProvider  `json:"provider"`
	AgentType   AIAgentType `json:"agent_type"`
	ModelName   string      `json:"model_name"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AIJob is an asynchronous content-generation run. The backend accepts it
// with status pending and advances it in the background; clients poll.
type AIJob struct {
	ID              string         `json:"id"`
	ConfigurationID string         `json:"configuration_id"`
	JobType         AIAgentType    `json:"job_type"`
	Status          AIJobStatus    `json:"status"`
	InputPrompt     string         `json:"input_prompt"`
	OutputData      map[string]any `json:"output_data,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// AIBlockSuggestion is a block drafted by an AI job, pending human review
// before it becomes a real block.
type AIBlockSuggestion struct {
	ID              string           `json:"id"`
	AIJobID         string           `json:"ai_job_id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Content         string           `json:"content"`
	BlockType       BlockType        `json:"block_type"`
	ConfidenceScore float64          `json:"confidence_score"`
	Rationale       string           `json:"ai_rationale,omitempty"`
	Status          SuggestionStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}
